package index

import "github.com/starford/raido/internal/models"

// ItemIndex defines the interface for list indexing operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type ItemIndex interface {
	UpsertList(list models.AwesomeList, checksum string) error
	DeleteList(sourceFile string) error
	GetChecksum(sourceFile string) (string, error)
	AllChecksums() (map[string]string, error)
	ListItems(limit, offset int, tag, topic string) ([]models.ListItem, int, error)
	Lists() ([]models.AwesomeList, error)
	Topics() ([]string, error)
	Tags() ([]string, error)
	Metadata() (models.CacheMetadata, error)
	Search(query string, limit int) ([]models.ListItem, error)
	Close() error
}

// Verify *DB satisfies ItemIndex at compile time.
var _ ItemIndex = (*DB)(nil)
