package integrate

import (
	"os"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/types"
)

// acquireLock creates the advisory lock file exclusively. The pipeline
// is a single-invocation-at-a-time contract: two simultaneous runs
// would race on tree deletion and on the state marker, so a held lock
// fails fast instead of queueing.
func acquireLock(fs types.FS, path string) (release func(), err error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLockHeld,
			"another integration appears to be running (lock file %s exists); remove it if that run is dead", path)
	}
	_ = f.Close()

	return func() {
		_ = fs.Remove(path)
	}, nil
}
