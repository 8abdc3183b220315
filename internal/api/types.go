package api

import "voltdesk/internal/types"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string       `json:"message"`
	History []types.Turn `json:"history"`
}

// DocQueryRequest is the body of POST /docs/query.
type DocQueryRequest struct {
	SessionID string       `json:"session_id"`
	Message   string       `json:"message"`
	History   []types.Turn `json:"history"`
}

// AnswerResponse is returned by /chat and /docs/query.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// UploadResponse is returned by POST /docs/upload.
type UploadResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// OhmsRequest is the body of POST /calculate/ohms. Nil fields are sent as null.
type OhmsRequest struct {
	V *float64 `json:"V"`
	I *float64 `json:"I"`
	R *float64 `json:"R"`
}

// RLCRequest is the body of POST /calculate/rlc. Mode uses the backend's labels (직렬/병렬).
type RLCRequest struct {
	R    *float64 `json:"R"`
	L    *float64 `json:"L"`
	C    *float64 `json:"C"`
	F    *float64 `json:"f"`
	Mode string   `json:"mode"`
}

// PingResponse is returned by GET /.
type PingResponse struct {
	Message string `json:"message"`
}

// errorBody is the optional error payload. Detail is usually a string but
// validation failures carry a list.
type errorBody struct {
	Detail interface{} `json:"detail"`
}
