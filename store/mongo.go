package store

import (
	"github.com/pkg/errors"
	"gopkg.in/mgo.v2"

	"github.com/dustin/go-mwdiffs"
)

// Revisions of a page are usually read together.
var pageIndex = mgo.Index{
	Key:        []string{"page.id", "id"},
	Background: true,
}

type mongoStore struct {
	session *mgo.Session
	c       *mgo.Collection
}

func openMongo(dburl, dbname, collection string) (Store, error) {
	session, err := mgo.Dial(dburl)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	c := session.DB(dbname).C(collection)
	if err := c.EnsureIndex(pageIndex); err != nil {
		session.Close()
		return nil, errors.Wrap(err, "creating page index")
	}
	logger.Infof("Loading into mongodb collection %v.%v", dbname, collection)
	return &mongoStore{session, c}, nil
}

func (s *mongoStore) Put(doc *mwdiffs.RevisionDoc) error {
	m, err := docMap(doc)
	if err != nil {
		return err
	}
	id := int64(doc.ID)
	m["_id"] = id

	err = s.c.Insert(m)
	if mgo.IsDup(err) {
		logger.Debugf("Replacing existing revision %d", id)
		err = s.c.UpdateId(id, m)
	}
	return errors.Wrapf(err, "storing revision %d", id)
}

func (s *mongoStore) Close() error {
	s.session.Close()
	return nil
}
