package store

import (
	"github.com/dustin/go-elasticsearch"
	"github.com/pkg/errors"

	"github.com/dustin/go-mwdiffs"
)

const esBatchSize = 1000

type esStore struct {
	index   string
	bulk    elasticsearch.BulkUpdater
	counter int
}

func openElasticSearch(server, index string) Store {
	es := elasticsearch.ElasticSearch{URL: server}
	logger.Infof("Loading into elasticsearch index %v at %v", index, server)
	return &esStore{index: index, bulk: es.Bulk()}
}

func (s *esStore) Put(doc *mwdiffs.RevisionDoc) error {
	body, err := docMap(doc)
	if err != nil {
		return err
	}
	if s.counter >= esBatchSize {
		if err := s.bulk.SendBatch(); err != nil {
			return errors.Wrap(err, "sending elasticsearch batch")
		}
		s.counter = 0
	}
	s.bulk.Update(&elasticsearch.UpdateInstruction{
		Id:    docKey(doc),
		Index: s.index,
		Type:  "revision",
		Body:  body,
	})
	s.counter++
	return nil
}

func (s *esStore) Close() error {
	defer s.bulk.Quit()
	if s.counter == 0 {
		return nil
	}
	return errors.Wrap(s.bulk.SendBatch(), "sending elasticsearch batch")
}
