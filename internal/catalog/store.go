package catalog

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when an item id does not resolve.
var ErrNotFound = errors.New("item not found")

// DuplicateError is returned when an insert hits the unique index on a
// category's identifying field. Existing is the item already holding the
// value.
type DuplicateError struct {
	Existing *Item
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate item %s", e.Existing.ID.Hex())
}

// Store is the persistence contract for catalog items. Implementations
// keep one collection per category.
type Store interface {
	// List returns every item of a category in store-native order.
	List(ctx context.Context, s Schema) ([]*Item, error)

	// Get retrieves one item by id, ErrNotFound when absent.
	Get(ctx context.Context, s Schema, id primitive.ObjectID) (*Item, error)

	// FindByIdent retrieves the item whose identifying field equals value,
	// ErrNotFound when absent.
	FindByIdent(ctx context.Context, s Schema, value string) (*Item, error)

	// Create inserts a new item and assigns its id. A unique-index
	// conflict on the identifying field yields a *DuplicateError.
	Create(ctx context.Context, s Schema, it *Item) error

	// Replace overwrites every field of the item with the given id,
	// preserving the id. ErrNotFound when the id does not resolve.
	Replace(ctx context.Context, s Schema, id primitive.ObjectID, it *Item) error

	// Delete removes an item by id. Deleting an absent id is not an error.
	Delete(ctx context.Context, s Schema, id primitive.ObjectID) error

	// EnsureIndexes creates the unique identifying-field index for every
	// category.
	EnsureIndexes(ctx context.Context) error
}

// FindOrCreate inserts the item unless one with the same identifying value
// already exists, in which case the existing item is returned and created
// is false. Losing a concurrent-insert race against the unique index is
// folded into the same result. Both the web handlers and the seeder create
// items through this path.
func FindOrCreate(ctx context.Context, st Store, s Schema, it *Item) (existing *Item, created bool, err error) {
	found, err := st.FindByIdent(ctx, s, it.Ident(s))
	if err == nil {
		return found, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, errors.Wrap(err, "lookup by identifying field")
	}

	err = st.Create(ctx, s, it)
	if err == nil {
		return it, true, nil
	}
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Existing, false, nil
	}
	return nil, false, errors.Wrap(err, "create item")
}
