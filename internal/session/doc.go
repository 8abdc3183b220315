package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"voltdesk/internal/api"
	"voltdesk/internal/logging"
	"voltdesk/internal/types"
)

// Status texts shown by the document view.
const (
	StatusSelectFile   = "파일을 선택해주세요."
	StatusUploading    = "파일 업로드 및 처리 중..."
	NoticeNeedQuestion = "질문을 입력하거나 문서를 먼저 업로드해주세요."
)

// DocBackend uploads documents and answers questions about them.
type DocBackend interface {
	UploadDocument(ctx context.Context, filename string, content io.Reader) (*api.UploadResponse, error)
	QueryDocument(ctx context.Context, req api.DocQueryRequest) (*api.AnswerResponse, error)
}

// DocSession is the document Q&A view's state: a transcript gated behind an
// upload that establishes the session handle. Upload and query share one gate.
type DocSession struct {
	*exchange
	backend DocBackend

	mu        sync.RWMutex
	sessionID string
	status    string
	uploading bool
}

// UploadTicket identifies one accepted upload.
type UploadTicket struct {
	Path string
}

// DocTicket identifies one accepted document query.
type DocTicket struct {
	Ticket
	SessionID string
}

// NewDocSession returns a session with no document.
func NewDocSession(backend DocBackend) *DocSession {
	return &DocSession{
		exchange: newExchange(""),
		backend:  backend,
	}
}

// SessionID returns the current handle, empty before the first successful upload.
func (d *DocSession) SessionID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sessionID
}

// HasSession reports whether queries are enabled.
func (d *DocSession) HasSession() bool {
	return d.SessionID() != ""
}

// Status returns the upload status line.
func (d *DocSession) Status() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Uploading reports whether the in-flight request is an upload.
func (d *DocSession) Uploading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.uploading
}

func (d *DocSession) setStatus(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
}

// BeginUpload accepts an upload of path. With no path it sets the select-file
// status and returns ErrNoFile; while any request is in flight it returns ErrPending.
func (d *DocSession) BeginUpload(path string) (UploadTicket, error) {
	if types.IsBlank(path) {
		d.setStatus(StatusSelectFile)
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestRejected, Endpoint: api.EndpointUpload, Err: ErrNoFile})
		return UploadTicket{}, ErrNoFile
	}
	if !d.gate.TryEnter() {
		return UploadTicket{}, ErrPending
	}

	d.mu.Lock()
	d.status = StatusUploading
	d.uploading = true
	d.mu.Unlock()
	return UploadTicket{Path: path}, nil
}

// CallUpload opens the file and performs the upload request. It does not modify state.
func (d *DocSession) CallUpload(ctx context.Context, t UploadTicket) (*api.UploadResponse, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	return d.backend.UploadDocument(ctx, filepath.Base(t.Path), f)
}

// CompleteUpload stores the new handle and status, or the error status.
// A new handle silently replaces the previous one.
func (d *DocSession) CompleteUpload(t UploadTicket, resp *api.UploadResponse, err error) {
	defer d.gate.Leave()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploading = false

	if err != nil {
		d.status = ErrorPrefix + api.ErrorDetail(err)
		logging.Session("upload of %s failed: %v", t.Path, err)
		return
	}

	if d.sessionID != "" && d.sessionID != resp.SessionID {
		logging.Audit(logging.AuditEvent{Type: logging.AuditSessionReplaced, Endpoint: api.EndpointUpload})
	}
	d.sessionID = resp.SessionID
	d.status = resp.Message
	logging.Session("document session established for %s", t.Path)
}

// Upload runs one full upload. Only local rejections are returned as errors;
// a failed request is reported through Status.
func (d *DocSession) Upload(ctx context.Context, path string) error {
	t, err := d.BeginUpload(path)
	if err != nil {
		return err
	}
	resp, callErr := d.CallUpload(ctx, t)
	d.CompleteUpload(t, resp, callErr)
	return nil
}

// Begin accepts a question. It returns ErrEmptyInput or ErrNoSession (both shown
// to the user as NoticeNeedQuestion) or ErrPending, leaving the transcript unchanged.
func (d *DocSession) Begin(text string) (DocTicket, error) {
	sessionID := d.SessionID()
	if sessionID == "" || types.IsBlank(text) {
		err := ErrNoSession
		if sessionID != "" {
			err = ErrEmptyInput
		}
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestRejected, Endpoint: api.EndpointQuery, Err: err})
		return DocTicket{}, err
	}

	t, err := d.begin(text)
	if err != nil {
		return DocTicket{}, err
	}
	return DocTicket{Ticket: t, SessionID: sessionID}, nil
}

// Request builds the outgoing body for a ticket.
func (d *DocSession) Request(t DocTicket) api.DocQueryRequest {
	return api.DocQueryRequest{SessionID: t.SessionID, Message: t.Message, History: t.History}
}

// Call performs the query request for a ticket. It does not modify state.
func (d *DocSession) Call(ctx context.Context, t DocTicket) (string, error) {
	resp, err := d.backend.QueryDocument(ctx, d.Request(t))
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Complete records the outcome of a query and returns the appended assistant turn.
func (d *DocSession) Complete(t DocTicket, answer string, err error) types.Turn {
	turn, _ := d.complete(t.Ticket, answer, err)
	return turn
}

// Send runs one full query exchange.
func (d *DocSession) Send(ctx context.Context, text string) (types.Turn, error) {
	t, err := d.Begin(text)
	if err != nil {
		return types.Turn{}, err
	}
	answer, callErr := d.Call(ctx, t)
	return d.Complete(t, answer, callErr), nil
}

// Reset clears the transcript and keeps the document session.
func (d *DocSession) Reset() {
	d.reset()
	logging.Session("document conversation reset")
}
