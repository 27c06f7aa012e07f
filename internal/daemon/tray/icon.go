package tray

// iconData is a 16x16 monochrome template PNG.
var iconData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x38, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x01, 0xf8,
	0x4f, 0x00, 0x53, 0xa4, 0x19, 0xaf, 0x21, 0xff, 0x49, 0xc4, 0x78, 0x35,
	0x93, 0x22, 0x86, 0x21, 0xc1, 0x40, 0x40, 0xf1, 0xa8, 0x01, 0x24, 0x18,
	0x40, 0x4c, 0x74, 0x13, 0xb4, 0x8d, 0x98, 0xe8, 0xa6, 0x4e, 0x42, 0xa2,
	0x4a, 0x52, 0xa6, 0x4a, 0x66, 0x22, 0x19, 0x00, 0x00, 0x86, 0xec, 0x87,
	0x79, 0x18, 0xfb, 0x78, 0x84, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e,
	0x44, 0xae, 0x42, 0x60, 0x82,
}
