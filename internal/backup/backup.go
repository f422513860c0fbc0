// Package backup provides tar.gz-based backup and restore for the snapshot
// database and configuration file.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/winegallery/internal/store"
	"github.com/HerbHall/winegallery/internal/version"
)

// ManifestName is the archive entry describing the backup.
const ManifestName = "manifest.yaml"

// ErrExists is returned by Restore when a target file exists and force is
// not set.
var ErrExists = errors.New("file already exists")

// Manifest records what a backup archive contains.
type Manifest struct {
	CreatedAt time.Time         `yaml:"created_at"`
	Build     version.BuildInfo `yaml:"build"`
	Files     []string          `yaml:"files"`
}

// Backup creates a tar.gz archive containing the SQLite database, an
// optional config file and a manifest. It performs a WAL checkpoint before
// copying the database.
func Backup(ctx context.Context, dbPath, configPath, outputPath string) (err error) {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database file not found: %w", err)
	}

	if err := checkpointWAL(ctx, dbPath); err != nil {
		return fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	files := []string{dbPath}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			files = append(files, configPath)
		}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil {
			err = cerr
		}
	}()

	gw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gw)

	manifest := Manifest{CreatedAt: time.Now().UTC(), Build: version.Get()}
	for _, f := range files {
		manifest.Files = append(manifest.Files, filepath.Base(f))
	}
	if err := writeManifest(tw, manifest); err != nil {
		return fmt.Errorf("adding manifest to archive: %w", err)
	}

	for _, f := range files {
		if err := addFileToTar(tw, f, filepath.Base(f)); err != nil {
			return fmt.Errorf("adding %s to archive: %w", filepath.Base(f), err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return gw.Close()
}

// Restore extracts a backup archive into dataDir and returns its manifest.
// Existing files are only replaced when force is set.
func Restore(ctx context.Context, archivePath, dataDir string, force bool) (*Manifest, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading gzip stream: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var manifest *Manifest
	tr := tar.NewReader(gr)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Base(hdr.Name)
		if name != hdr.Name || strings.HasPrefix(name, ".") {
			return nil, fmt.Errorf("unsafe archive entry %q", hdr.Name)
		}

		if name == ManifestName {
			var m Manifest
			if err := yaml.NewDecoder(tr).Decode(&m); err != nil {
				return nil, fmt.Errorf("decoding manifest: %w", err)
			}
			manifest = &m
			continue
		}

		if err := extractFile(tr, filepath.Join(dataDir, name), hdr.FileInfo().Mode().Perm(), force); err != nil {
			return nil, err
		}
	}

	if manifest == nil {
		return nil, fmt.Errorf("archive has no %s", ManifestName)
	}
	return manifest, nil
}

// checkpointWAL flushes the write-ahead log so the database file is
// complete on its own.
func checkpointWAL(ctx context.Context, dbPath string) error {
	db, err := store.New(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Checkpoint(ctx)
}

func writeManifest(tw *tar.Writer, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:    ManifestName,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: m.CreatedAt,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = tw.Write(data)
	return err
}

// addFileToTar adds a single file to the tar archive under the given name.
func addFileToTar(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}

func extractFile(r io.Reader, target string, perm os.FileMode, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	if perm == 0 {
		perm = 0o600
	}
	out, err := os.OpenFile(target, flags, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, target)
		}
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}
