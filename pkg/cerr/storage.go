package cerr

import (
	"errors"
	"fmt"

	"github.com/kazz187/taskboard/pkg/storage"
)

// StorageOp is the storage call that failed.
type StorageOp string

const (
	StorageRead   StorageOp = "read"
	StorageWrite  StorageOp = "write"
	StorageDelete StorageOp = "delete"
	StorageList   StorageOp = "list"
)

// WrapStorageError turns a storage failure on document (for example
// "task 4") into a response error. A missing document is NotFound unless op
// is a write or a list, where absence is not the caller's fault. Other
// failures are Internal and the cause stays out of the response body.
func WrapStorageError(op StorageOp, document string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) && (op == StorageRead || op == StorageDelete) {
		return NewError(NotFound, fmt.Sprintf("%s not found", document), err)
	}
	return NewError(Internal, fmt.Sprintf("could not %s %s", op, document), err)
}
