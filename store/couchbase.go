package store

import (
	"github.com/couchbase/go-couchbase"
	"github.com/pkg/errors"

	"github.com/dustin/go-mwdiffs"
)

type couchbaseStore struct {
	b *couchbase.Bucket
}

func openCouchbase(server, bucket string) (Store, error) {
	b, err := couchbase.GetBucket(server, "default", bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to couchbase bucket %v", bucket)
	}
	logger.Infof("Loading into couchbase bucket %v at %v", bucket, server)
	return &couchbaseStore{b}, nil
}

func (s *couchbaseStore) Put(doc *mwdiffs.RevisionDoc) error {
	return errors.Wrapf(s.b.Set(docKey(doc), 0, doc), "setting revision %d", doc.ID)
}

func (s *couchbaseStore) Close() error {
	s.b.Close()
	return nil
}
