package png2src

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/wasm4kit/png2src/sprite"
)

func (t *Tool) findSprites(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)

		m, err := BuildModuleTree(base)
		if err != nil {
			errc <- err
			return
		}

		for _, path := range m.Flatten().SpritePaths() {
			select {
			case out <- path:
			case <-ctx.Done():
				errc <- errors.New("png2src: indexing cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (t *Tool) spriteWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for path := range in {
			name, err := Stem(path)
			if err != nil {
				errc <- err
				return
			}

			b, err := os.ReadFile(path)
			if err != nil {
				errc <- err
				return
			}
			h := sha1.Sum(b)
			sha := fmt.Sprintf("%X", h)

			s, err := sprite.Convert(name, b)
			if err != nil {
				errc <- fmt.Errorf("%s: %w", path, err)
				return
			}

			changed, err := t.db.Put(path, sha, s)
			if err != nil {
				errc <- err
				return
			}

			if changed {
				t.logger.Info("indexed sprite",
					zap.String("name", s.Name()),
					zap.String("path", path),
					zap.Uint32("width", s.Width()),
					zap.Uint32("height", s.Height()),
					zap.Stringer("flags", s.Flags()))
			} else {
				t.logger.Debug("sprite unchanged", zap.String("path", path))
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Index converts every sprite found under dir and stores the results
// in the catalog. Sprites whose files have not changed since the last
// run are skipped.
func (t *Tool) Index(dir string) error {
	base, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	paths, errc, err := t.findSprites(ctx, base)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < t.workers; i++ {
		errc, err := t.spriteWorker(ctx, paths)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
