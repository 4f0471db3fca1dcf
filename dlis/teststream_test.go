package dlis

import "github.com/e-zl/dlisio/stream"

// memStream is a minimal in-memory stream.Stream for exercising the
// framing engine without touching a real file, mirroring how the
// teacher's own tests build small fixtures in memory rather than
// shelling out to fixture files on disk.
type memStream struct {
	data  []byte
	ltell int64
	eof   bool
}

func newMemStream(data []byte) *memStream {
	return &memStream{data: data}
}

func (m *memStream) Read(buf []byte) (int, error) {
	if m.ltell >= int64(len(m.data)) {
		m.eof = true
		return 0, nil
	}
	n := copy(buf, m.data[m.ltell:])
	m.ltell += int64(n)
	if m.ltell >= int64(len(m.data)) {
		m.eof = true
	}
	return n, nil
}

func (m *memStream) Seek(ltell int64) error {
	m.ltell = ltell
	m.eof = false
	return nil
}

func (m *memStream) Ltell() int64 { return m.ltell }
func (m *memStream) Ptell() int64 { return m.ltell }
func (m *memStream) EOF() bool    { return m.eof }

var _ stream.Stream = (*memStream)(nil)

// lrs builds one Logical Record Segment: a 4-byte LRSH followed by body.
func lrs(attrs byte, recordType byte, body []byte) []byte {
	length := lrshSize + len(body)
	out := make([]byte, 0, length)
	out = append(out, byte(length>>8), byte(length))
	out = append(out, attrs, recordType)
	out = append(out, body...)
	return out
}

// padded appends a pad-count trailer byte (PADDING attribute set) so
// trim_segment has something to trim.
func padded(body []byte, padBytes int) []byte {
	out := append([]byte{}, body...)
	for i := 1; i < padBytes; i++ {
		out = append(out, 0)
	}
	out = append(out, byte(padBytes))
	return out
}

// loggedIncident is one call captured by a spyErrorHandler.
type loggedIncident struct {
	severity Severity
	context  string
	problem  string
	debug    DebugInfo
}

// spyErrorHandler records every incident logged through it, so tests can
// assert on severity and count without caring about message formatting.
type spyErrorHandler struct {
	incidents []loggedIncident
}

func (s *spyErrorHandler) Log(severity Severity, context, problem, specRef, action string, debug DebugInfo) {
	s.incidents = append(s.incidents, loggedIncident{severity: severity, context: context, problem: problem, debug: debug})
}
