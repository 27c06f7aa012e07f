// Package api defines the daemon's gRPC surface: the presence boundary
// operations used by the launcher shell and the daemon control calls used
// by the CLI. Messages travel as protobuf well-known types so no generated
// code is needed; the Go structs below are converted at the edges.
//
// A structpb.Struct holds only JSON values, so timestamps cannot be
// timestamppb messages. They are UTC RFC 3339 strings with nanoseconds,
// and the empty string means the zero time. gRPC-Web callers parse them
// with Date.parse, which keeps millisecond precision.
package api

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// RequestMeta contains metadata about the client making a request.
type RequestMeta struct {
	// Origin names the caller, e.g. "cli", "webview" or "tray".
	Origin string
}

// ConnectRequest asks the daemon to open a Discord session.
type ConnectRequest struct {
	Meta     *RequestMeta
	ClientID string
}

// SetActivityRequest carries the caller-supplied part of an activity.
type SetActivityRequest struct {
	Meta    *RequestMeta
	State   string
	Details string
}

// ClearRequest asks the daemon to clear the published activity.
type ClearRequest struct {
	Meta *RequestMeta
}

// PresenceStatus reports the daemon's Discord session.
type PresenceStatus struct {
	Connected bool
	ClientID  string
	State     string
	Details   string
	Since     time.Time
}

// DaemonStatus represents the current status of the daemon.
type DaemonStatus struct {
	Host      string
	Port      int
	PID       int
	StartedAt time.Time
	Version   string
}

// ============================================================================
// Conversion Functions
// ============================================================================

func metaFields(m *RequestMeta, fields map[string]any) map[string]any {
	if m != nil && m.Origin != "" {
		fields["origin"] = m.Origin
	}
	return fields
}

func metaFromProto(s *structpb.Struct) *RequestMeta {
	origin := stringField(s, "origin")
	if origin == "" {
		return nil
	}
	return &RequestMeta{Origin: origin}
}

func (r *ConnectRequest) toProto() (*structpb.Struct, error) {
	return newStruct(metaFields(r.Meta, map[string]any{
		"client_id": r.ClientID,
	}))
}

func connectRequestFromProto(s *structpb.Struct) *ConnectRequest {
	return &ConnectRequest{
		Meta:     metaFromProto(s),
		ClientID: stringField(s, "client_id"),
	}
}

func (r *SetActivityRequest) toProto() (*structpb.Struct, error) {
	return newStruct(metaFields(r.Meta, map[string]any{
		"state":   r.State,
		"details": r.Details,
	}))
}

func setActivityRequestFromProto(s *structpb.Struct) *SetActivityRequest {
	return &SetActivityRequest{
		Meta:    metaFromProto(s),
		State:   stringField(s, "state"),
		Details: stringField(s, "details"),
	}
}

func (r *ClearRequest) toProto() (*structpb.Struct, error) {
	return newStruct(metaFields(r.Meta, map[string]any{}))
}

func clearRequestFromProto(s *structpb.Struct) *ClearRequest {
	return &ClearRequest{Meta: metaFromProto(s)}
}

func (p *PresenceStatus) toProto() (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"connected": p.Connected,
		"client_id": p.ClientID,
		"state":     p.State,
		"details":   p.Details,
		"since":     formatTime(p.Since),
	})
}

func presenceStatusFromProto(s *structpb.Struct) (*PresenceStatus, error) {
	since, err := parseTime(stringField(s, "since"))
	if err != nil {
		return nil, err
	}
	return &PresenceStatus{
		Connected: s.GetFields()["connected"].GetBoolValue(),
		ClientID:  stringField(s, "client_id"),
		State:     stringField(s, "state"),
		Details:   stringField(s, "details"),
		Since:     since,
	}, nil
}

func (d *DaemonStatus) toProto() (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"host":       d.Host,
		"port":       d.Port,
		"pid":        d.PID,
		"started_at": formatTime(d.StartedAt),
		"version":    d.Version,
	})
}

func daemonStatusFromProto(s *structpb.Struct) (*DaemonStatus, error) {
	startedAt, err := parseTime(stringField(s, "started_at"))
	if err != nil {
		return nil, err
	}
	return &DaemonStatus{
		Host:      stringField(s, "host"),
		Port:      int(s.GetFields()["port"].GetNumberValue()),
		PID:       int(s.GetFields()["pid"].GetNumberValue()),
		StartedAt: startedAt,
		Version:   stringField(s, "version"),
	}, nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode timestamp %q: %w", raw, err)
	}
	return t, nil
}
