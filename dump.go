package mwdiffs

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// SiteInfo is the toplevel site info describing basic dump properties.
type SiteInfo struct {
	SiteName   string `xml:"sitename"`
	DBName     string `xml:"dbname"`
	Base       string `xml:"base"`
	Generator  string `xml:"generator"`
	Case       string `xml:"case"`
	Namespaces []struct {
		Key   string `xml:"key,attr"`
		Case  string `xml:"case,attr"`
		Value string `xml:",chardata"`
	} `xml:"namespaces>namespace"`
}

// A Contributor is the user who made a revision.  Anonymous edits only
// have an IP.
type Contributor struct {
	ID       uint64 `xml:"id"`
	Username string `xml:"username"`
	IP       string `xml:"ip"`
}

// Text is the content of a revision.  Deleted is set when the text
// was suppressed.
type Text struct {
	Deleted string `xml:"deleted,attr"`
	Bytes   int    `xml:"bytes,attr"`
	Value   string `xml:",chardata"`
}

// A Revision to a page.
type Revision struct {
	ID          uint64      `xml:"id"`
	ParentID    uint64      `xml:"parentid"`
	Timestamp   string      `xml:"timestamp"`
	Contributor Contributor `xml:"contributor"`
	Minor       *struct{}   `xml:"minor"`
	Comment     string      `xml:"comment"`
	Model       string      `xml:"model"`
	Format      string      `xml:"format"`
	Text        *Text       `xml:"text"`
	SHA1        string      `xml:"sha1"`
}

// Redirect names the target of a redirect page.
type Redirect struct {
	Title string `xml:"title,attr"`
}

// A Page with all its revisions.
type Page struct {
	Title     string     `xml:"title"`
	Namespace int        `xml:"ns"`
	ID        uint64     `xml:"id"`
	Redirect  *Redirect  `xml:"redirect"`
	Revisions []Revision `xml:"revision"`
}

func (p *Page) ref() PageRef {
	rv := PageRef{ID: p.ID, Title: p.Title, Namespace: p.Namespace}
	if p.Redirect != nil {
		rv.Redirect = p.Redirect.Title
	}
	return rv
}

// RevDocs converts every revision of the page.
func (p *Page) RevDocs() []*RevisionDoc {
	ref := p.ref()
	rv := make([]*RevisionDoc, 0, len(p.Revisions))
	for i := range p.Revisions {
		rv = append(rv, p.Revisions[i].RevDoc(ref))
	}
	return rv
}

// RevDoc converts the revision into a document of the given page.
func (r *Revision) RevDoc(page PageRef) *RevisionDoc {
	doc := &RevisionDoc{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Page:      &page,
		Minor:     r.Minor != nil,
		Comment:   r.Comment,
		SHA1:      r.SHA1,
		ParentID:  r.ParentID,
		Model:     r.Model,
		Format:    r.Format,
	}

	c := r.Contributor
	switch {
	case c.Username != "":
		doc.User = &User{ID: c.ID, Text: c.Username}
	case c.IP != "":
		doc.User = &User{Text: c.IP}
	}

	if r.Text != nil {
		doc.Bytes = r.Text.Bytes
		if r.Text.Deleted == "" {
			text := r.Text.Value
			doc.Text = &text
		}
	}
	return doc
}

// A DumpReader emits the revisions of an XML dump as documents, one at
// a time.
type DumpReader struct {
	// The toplevel site info.
	SiteInfo SiteInfo

	x    *xml.Decoder
	page *PageRef
}

// NewDumpReader gets a dump reader reading from the given reader.
func NewDumpReader(r io.Reader) (*DumpReader, error) {
	d := &DumpReader{x: xml.NewDecoder(r)}
	for {
		t, err := d.x.Token()
		if err == io.EOF {
			return nil, errors.New("no siteinfo or pages found in dump")
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading dump header")
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "siteinfo":
			if err := d.x.DecodeElement(&d.SiteInfo, &se); err != nil {
				return nil, errors.Wrap(err, "decoding siteinfo")
			}
			return d, nil
		case "page":
			d.page = &PageRef{}
			return d, nil
		}
	}
}

// Next gets the next revision from the dump.
func (d *DumpReader) Next() (*RevisionDoc, error) {
	for {
		t, err := d.x.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading dump")
		}

		switch se := t.(type) {
		case xml.EndElement:
			if se.Name.Local == "page" {
				d.page = nil
			}
		case xml.StartElement:
			if se.Name.Local == "page" {
				d.page = &PageRef{}
				continue
			}
			if d.page == nil {
				err = d.x.Skip()
			} else {
				switch se.Name.Local {
				case "title":
					err = d.x.DecodeElement(&d.page.Title, &se)
				case "ns":
					err = d.x.DecodeElement(&d.page.Namespace, &se)
				case "id":
					err = d.x.DecodeElement(&d.page.ID, &se)
				case "redirect":
					var r Redirect
					err = d.x.DecodeElement(&r, &se)
					d.page.Redirect = r.Title
				case "revision":
					var r Revision
					if err := d.x.DecodeElement(&r, &se); err != nil {
						return nil, errors.Wrapf(err, "decoding revision of %q", d.page.Title)
					}
					return r.RevDoc(*d.page), nil
				default:
					err = d.x.Skip()
				}
			}
			if err != nil {
				return nil, errors.Wrapf(err, "decoding <%s>", se.Name.Local)
			}
		}
	}
}
