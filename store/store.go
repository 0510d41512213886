// Package store loads diffed revision documents into document
// databases.
//
// Stores are named by URL:
//
//	couchbase+http://localhost:8091/<bucket>
//	couchdb+http://localhost:5984/<database>
//	elasticsearch+http://localhost:9200/<index>
//	mongodb://localhost/<database>/<collection>
//
// Documents are keyed by revision id, so loading the same revisions
// again replaces them.
package store

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/juju/loggo"
	"github.com/pkg/errors"

	"github.com/dustin/go-mwdiffs"
)

var logger = loggo.GetLogger("mwdiffs.store")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A Store receives revision documents.
type Store interface {
	Put(doc *mwdiffs.RevisionDoc) error
	Close() error
}

// Open connects to the store named by rawurl.
func Open(rawurl string) (Store, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, errors.Wrap(err, "parsing store url")
	}

	kind, scheme := u.Scheme, "http"
	if i := strings.Index(u.Scheme, "+"); i >= 0 {
		kind, scheme = u.Scheme[:i], u.Scheme[i+1:]
	}
	server := scheme + "://" + u.Host + "/"
	path := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch kind {
	case "couchbase":
		if len(path) != 1 || path[0] == "" {
			return nil, errors.Errorf("couchbase url needs a bucket: %v", rawurl)
		}
		return openCouchbase(server, path[0])
	case "couchdb":
		if len(path) != 1 || path[0] == "" {
			return nil, errors.Errorf("couchdb url needs a database: %v", rawurl)
		}
		return openCouchDB(server + path[0])
	case "elasticsearch":
		if len(path) != 1 || path[0] == "" {
			return nil, errors.Errorf("elasticsearch url needs an index: %v", rawurl)
		}
		return openElasticSearch(server, path[0]), nil
	case "mongodb":
		if len(path) != 2 || path[0] == "" || path[1] == "" {
			return nil, errors.Errorf("mongodb url needs a database and collection: %v", rawurl)
		}
		return openMongo("mongodb://"+u.Host+"/"+path[0], path[0], path[1])
	}
	return nil, errors.Errorf("unknown store %q", u.Scheme)
}

// Load puts every document from src into s.
func Load(s Store, src mwdiffs.RevDocSource) (int64, error) {
	var n int64
	for {
		doc, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := s.Put(doc); err != nil {
			return n, err
		}
		n++
	}
}

func docKey(doc *mwdiffs.RevisionDoc) string {
	return strconv.FormatUint(doc.ID, 10)
}

// docMap is the generic form of doc, for stores that need to add their
// own fields.
func docMap(doc *mwdiffs.RevisionDoc) (map[string]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding revision %d", doc.ID)
	}
	rv := map[string]interface{}{}
	if err := json.Unmarshal(data, &rv); err != nil {
		return nil, errors.Wrapf(err, "decoding revision %d", doc.ID)
	}
	return rv, nil
}
