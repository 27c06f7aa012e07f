package discordipc

// Activity is the rich presence record published with SET_ACTIVITY.
type Activity struct {
	State   string   `json:"state,omitempty"`
	Details string   `json:"details,omitempty"`
	Assets  *Assets  `json:"assets,omitempty"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Assets references art uploaded to the Discord application.
type Assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

// Button is a labeled link shown under the activity. Discord accepts at
// most two.
type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// MaxButtons is the number of buttons Discord renders.
const MaxButtons = 2
