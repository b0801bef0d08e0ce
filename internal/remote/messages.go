package remote

import (
	"google.golang.org/protobuf/types/dynamicpb"
)

// RunRequest asks the service to evaluate Source. An empty SessionID starts
// a new session.
type RunRequest struct {
	SessionID string
	Source    string
}

// RunResponse reports what a run printed and how it ended.
type RunResponse struct {
	SessionID string
	Lines     []string
	ErrorKind string // empty on success
	Error     string
}

// Failed reports whether the run ended with an error.
func (r *RunResponse) Failed() bool {
	return r.ErrorKind != ""
}

func (s *Schema) encodeRunRequest(req *RunRequest) *dynamicpb.Message {
	msg := newMessage(s.Run.GetInputType())
	setString(msg, "session_id", req.SessionID)
	setString(msg, "source", req.Source)
	return msg
}

func decodeRunRequest(msg *dynamicpb.Message) *RunRequest {
	return &RunRequest{
		SessionID: getString(msg, "session_id"),
		Source:    getString(msg, "source"),
	}
}

func (s *Schema) encodeRunResponse(resp *RunResponse) *dynamicpb.Message {
	msg := newMessage(s.Run.GetOutputType())
	setString(msg, "session_id", resp.SessionID)
	setStrings(msg, "lines", resp.Lines)
	setString(msg, "error_kind", resp.ErrorKind)
	setString(msg, "error", resp.Error)
	return msg
}

func decodeRunResponse(msg *dynamicpb.Message) *RunResponse {
	return &RunResponse{
		SessionID: getString(msg, "session_id"),
		Lines:     getStrings(msg, "lines"),
		ErrorKind: getString(msg, "error_kind"),
		Error:     getString(msg, "error"),
	}
}

func (s *Schema) encodeCloseRequest(sessionID string) *dynamicpb.Message {
	msg := newMessage(s.Close.GetInputType())
	setString(msg, "session_id", sessionID)
	return msg
}

func (s *Schema) encodeCloseResponse(closed bool) *dynamicpb.Message {
	msg := newMessage(s.Close.GetOutputType())
	setBool(msg, "closed", closed)
	return msg
}
