package storage

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
	"loraserve.io/loraserve/pkg/progress"
)

type UploadSummary struct {
	Files int
	Bytes int64
}

// UploadDir pushes every regular file under localdir to remoteprefix,
// preserving relative paths. Files are digested before upload so the summary
// can be compared against a later sync. Hidden files are skipped.
func UploadDir(ctx context.Context, p Provider, localdir, remoteprefix string, mb *progress.MultiBar) (*UploadSummary, error) {
	summary := &UploadSummary{}
	err := filepath.WalkDir(localdir, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && fpath != localdir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(localdir, fpath)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		summary.Files++
		summary.Bytes += fi.Size()

		key := path.Join(remoteprefix, filepath.ToSlash(rel))
		mb.Go(rel, "pending", func(b *progress.Bar) error {
			return uploadFile(ctx, p, fpath, key, fi.Size(), b)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := mb.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func uploadFile(ctx context.Context, p Provider, fpath, key string, size int64, b *progress.Bar) error {
	f, err := os.Open(fpath)
	if err != nil {
		return err
	}
	b.SetStatus(filepath.Base(fpath), "digesting")
	dgst, err := digest.FromReader(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	f, err = os.Open(fpath)
	if err != nil {
		return err
	}
	return p.Put(ctx, key, Content{
		Content:       b.WrapReader(f, dgst.Hex()[:8], size, "done"),
		ContentLength: size,
		ContentType:   "application/octet-stream",
	})
}
