package fetch

import "context"

// Store is the remote parameter/secret store capability. Implementations
// report absence through the found/missing return values; errors are reserved
// for transport failures.
type Store interface {
	// GetOne fetches a single parameter. keyID optionally names a non-default
	// decryption key. A missing parameter returns found == false with a nil
	// error.
	GetOne(ctx context.Context, name, keyID string) (value string, found bool, err error)

	// GetMany fetches a batch of parameters with the store's default
	// decryption key; the remote API does not accept per-item keys in batch
	// mode. Results are partitioned into found values and missing names.
	GetMany(ctx context.Context, names []string) (found map[string]string, missing []string, err error)
}
