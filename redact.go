package mwdiffs

// DropText removes the text of every document from src.
func DropText(src RevDocSource) RevDocSource {
	return textDropper{src}
}

type textDropper struct {
	src RevDocSource
}

func (t textDropper) Next() (*RevisionDoc, error) {
	doc, err := t.src.Next()
	if doc != nil {
		doc.Text = nil
		delete(doc.Extra, "text")
	}
	return doc, err
}
