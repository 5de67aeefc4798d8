package leak

import (
	"errors"

	memdb "github.com/hashicorp/go-memdb"
)

var ErrDuplicateID = errors.New("allocation already tracked")

const (
	allocTable = "alloc"
	idIndex    = "id"
	siteIndex  = "site"
	typeIndex  = "type"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			allocTable: {
				Name: allocTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					siteIndex: {
						Name:    siteIndex,
						Indexer: &memdb.UintFieldIndex{Field: "Site"},
					},
					typeIndex: {
						Name:         typeIndex,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "TypeName"},
					},
				},
			},
		},
	}
}

// recordStore keeps live allocation records in a go-memdb table.
type recordStore struct {
	db *memdb.MemDB
}

func newRecordStore() (recordStore, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return recordStore{}, err
	}
	return recordStore{db: db}, nil
}

func (s recordStore) insert(rec *Record) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	old, err := txn.First(allocTable, idIndex, rec.ID)
	if err != nil {
		return err
	} else if old != nil {
		return ErrDuplicateID
	}

	if err := txn.Insert(allocTable, rec); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s recordStore) delete(id string) (deleted bool, err error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	actual, err := txn.First(allocTable, idIndex, id)
	if err != nil || actual == nil {
		return false, err
	}

	if err := txn.Delete(allocTable, actual); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (s recordStore) list(index string, args ...any) ([]Record, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(allocTable, index, args...)
	if err != nil {
		return nil, err
	}
	var out []Record
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*Record))
	}
	return out, nil
}
