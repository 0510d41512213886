package store

import (
	"github.com/dustin/go-couch"
	"github.com/pkg/errors"

	"github.com/dustin/go-mwdiffs"
)

type couchStore struct {
	db couch.Database
}

func openCouchDB(dburl string) (Store, error) {
	db, err := couch.Connect(dburl)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to couchdb")
	}
	logger.Infof("Loading into couchdb at %v", dburl)
	return &couchStore{db}, nil
}

func (s *couchStore) Put(doc *mwdiffs.RevisionDoc) error {
	m, err := docMap(doc)
	if err != nil {
		return err
	}
	id := docKey(doc)
	m["_id"] = id

	_, _, err = s.db.Insert(m)
	httpe, isHTTPError := err.(*couch.HTTPError)
	switch {
	case err == nil:
		return nil
	case isHTTPError && httpe.Status == 409:
		return s.replace(id, m)
	default:
		return errors.Wrapf(err, "inserting revision %v", id)
	}
}

// replace overwrites a revision loaded by an earlier run.
func (s *couchStore) replace(id string, m map[string]interface{}) error {
	logger.Debugf("Replacing existing revision %v", id)
	var prev struct {
		Rev string `json:"_rev"`
	}
	if err := s.db.Retrieve(id, &prev); err != nil {
		return errors.Wrapf(err, "retrieving existing revision %v", id)
	}
	if prev.Rev == "" {
		return errors.Errorf("got no _rev for existing revision %v", id)
	}
	_, err := s.db.EditWith(m, id, prev.Rev)
	return errors.Wrapf(err, "updating revision %v", id)
}

func (s *couchStore) Close() error {
	return nil
}
