package mwdiffs

import (
	"bytes"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/dustin/go-mwdiffs/diffengine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PageRef identifies the page a revision belongs to.
//
// Page fields this package doesn't know about are kept in Extra.
type PageRef struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Namespace int    `json:"namespace"`
	Redirect  string `json:"redirect,omitempty"`

	Extra map[string]jsoniter.RawMessage `json:"-"`
}

// pageKey is what makes two revisions belong to the same page.
type pageKey struct {
	id        uint64
	title     string
	namespace int
	redirect  string
}

func (p PageRef) key() pageKey {
	return pageKey{p.ID, p.Title, p.Namespace, p.Redirect}
}

type plainPageRef PageRef

// UnmarshalJSON implements json.Unmarshaler.
func (p *PageRef) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, (*plainPageRef)(p))
	p.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (p PageRef) MarshalJSON() ([]byte, error) {
	return joinFields(plainPageRef(p), p.Extra)
}

// User is the contributor of a revision.  Text holds the username, or
// the IP address of an anonymous edit.
type User struct {
	ID   uint64 `json:"id,omitempty"`
	Text string `json:"text,omitempty"`

	Extra map[string]jsoniter.RawMessage `json:"-"`
}

type plainUser User

// UnmarshalJSON implements json.Unmarshaler.
func (u *User) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, (*plainUser)(u))
	u.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (u User) MarshalJSON() ([]byte, error) {
	return joinFields(plainUser(u), u.Extra)
}

// A RevisionDoc is one revision of one page.  Text is nil when no text
// is available (e.g. it was suppressed).
//
// Input fields the typed fields wouldn't write back out (fields this
// package doesn't know about, and known ones holding a value omitempty
// drops, like "minor": false) are kept in Extra and written back out
// unchanged, so a document survives a round trip.
type RevisionDoc struct {
	ID        uint64   `json:"id"`
	Timestamp string   `json:"timestamp,omitempty"`
	Page      *PageRef `json:"page"`
	User      *User    `json:"user,omitempty"`
	Minor     bool     `json:"minor,omitempty"`
	Comment   string   `json:"comment,omitempty"`
	Text      *string  `json:"text,omitempty"`
	Bytes     int      `json:"bytes,omitempty"`
	SHA1      string   `json:"sha1,omitempty"`
	ParentID  uint64   `json:"parent_id,omitempty"`
	Model     string   `json:"model,omitempty"`
	Format    string   `json:"format,omitempty"`
	Diff      *Diff    `json:"diff,omitempty"`

	Extra map[string]jsoniter.RawMessage `json:"-"`
}

type plainRevisionDoc RevisionDoc

// UnmarshalJSON implements json.Unmarshaler.
func (r *RevisionDoc) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, (*plainRevisionDoc)(r))
	r.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (r RevisionDoc) MarshalJSON() ([]byte, error) {
	return joinFields(plainRevisionDoc(r), r.Extra)
}

// splitFields decodes the object data into v and returns the members
// of data that encoding v again would not reproduce.
func splitFields(data []byte, v interface{}) (map[string]jsoniter.RawMessage, error) {
	var all map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	got, err := encodedKeys(v)
	if err != nil {
		return nil, err
	}
	for k := range got {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func encodedKeys(v interface{}) (map[string]jsoniter.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rv map[string]jsoniter.RawMessage
	return rv, json.Unmarshal(data, &rv)
}

// joinFields encodes v followed by the members of extra it lacks.
func joinFields(v interface{}, extra map[string]jsoniter.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var got map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, ok := got[k]; !ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	buf := bytes.NewBuffer(data[:len(data)-1])
	for i, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		if i > 0 || len(got) > 0 {
			buf.WriteByte(',')
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Diff describes the change a revision made to the previous revision
// of the same page.
type Diff struct {
	// LastID is the previous revision of the page, nil for the first.
	LastID   *uint64  `json:"last_id"`
	Ops      []OpDoc  `json:"ops"`
	Time     *float64 `json:"time,omitempty"`
	Skipped  string   `json:"skipped,omitempty"`
	TimedOut bool     `json:"timedout,omitempty"`
}

// SkippedNoText is the Skipped reason for revisions without text.
const SkippedNoText = "no text"

// An OpDoc is a serializable edit operation.  Tokens is only set (and
// only written) for inserts and deletes.
type OpDoc struct {
	Name   string   `json:"name"`
	A1     int      `json:"a1"`
	A2     int      `json:"a2"`
	B1     int      `json:"b1"`
	B2     int      `json:"b2"`
	Tokens []string `json:"tokens,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o OpDoc) MarshalJSON() ([]byte, error) {
	var doc struct {
		Name   string    `json:"name"`
		A1     int       `json:"a1"`
		A2     int       `json:"a2"`
		B1     int       `json:"b1"`
		B2     int       `json:"b2"`
		Tokens *[]string `json:"tokens,omitempty"`
	}
	doc.Name, doc.A1, doc.A2, doc.B1, doc.B2 = o.Name, o.A1, o.A2, o.B1, o.B2
	if o.Name == diffengine.Insert || o.Name == diffengine.Delete {
		tokens := o.Tokens
		if tokens == nil {
			tokens = []string{}
		}
		doc.Tokens = &tokens
	}
	return json.Marshal(doc)
}

// A RevDocSource emits revision documents in order, returning io.EOF
// after the last one.
type RevDocSource interface {
	Next() (*RevisionDoc, error)
}
