package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"parcel/internal/progress"
	"parcel/internal/sources"
	"parcel/internal/utils"
)

// Result is the outcome of one successful transfer. Ownership of the
// file at FilePath passes to the caller, who removes it after delivery.
type Result struct {
	FilePath string
	FileName string
	FileSize int64
}

// Request identifies a single transfer. FileName optionally overrides
// the name resolved from the remote.
type Request struct {
	URL      string
	FileName string
}

type Config struct {
	DownloadDir    string
	SplitDir       string
	SplitThreshold int64
	PartSize       int64
	BufferSize     int
	HTTP           utils.HTTPClientConfig
}

// Manager drives streaming transfers. Each transfer exclusively owns
// its stream, byte counter and destination file; the progress store is
// the only shared state and doubles as the cancellation channel.
type Manager struct {
	store   *progress.Store
	sources *sources.Registry
	cfg     Config
}

func NewManager(store *progress.Store, cfg Config) *Manager {
	if cfg.SplitThreshold <= 0 {
		cfg.SplitThreshold = utils.SplitThreshold
	}
	if cfg.PartSize <= 0 {
		cfg.PartSize = utils.DefaultPartSize
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = utils.DefaultBufferSize
	}
	return &Manager{
		store:   store,
		sources: sources.NewRegistry(cfg.HTTP),
		cfg:     cfg,
	}
}

func (m *Manager) Store() *progress.Store {
	return m.store
}

// Fetch streams url into the downloads directory. It registers the
// transfer in the store, advances the byte count per chunk, and checks
// for a stop request before writing each chunk, so cancellation takes
// effect within one chunk interval. Any abort removes the partial file
// before the error is returned.
func (m *Manager) Fetch(ctx context.Context, url string) (*Result, error) {
	return m.fetch(ctx, Request{URL: url})
}

func (m *Manager) fetch(ctx context.Context, req Request) (*Result, error) {
	logger := utils.GetLogger("download").With().Str("url", req.URL).Logger()
	m.store.Register(req.URL, req.FileName, 0)

	remote, err := m.sources.Open(ctx, req.URL)
	if err != nil {
		m.store.Fail(req.URL, err)
		logger.Error().Err(err).Msg("Failed to open remote stream")
		return nil, err
	}
	defer remote.Body.Close()

	name := req.FileName
	if name == "" {
		name = remote.Name
	}
	if name == "" {
		name = "download-" + uuid.NewString()[:8]
	}
	if err := os.MkdirAll(m.cfg.DownloadDir, 0755); err != nil {
		err = &utils.IOError{Path: m.cfg.DownloadDir, Err: err}
		m.store.Fail(req.URL, err)
		return nil, err
	}
	destPath := filepath.Join(m.cfg.DownloadDir, name)
	if _, err := os.Stat(destPath); err == nil {
		destPath = utils.RenewOutputPath(destPath)
		name = filepath.Base(destPath)
	}
	m.store.SetMeta(req.URL, name, remote.Size)
	logger.Debug().Str("file", name).Int64("size", remote.Size).Msg("Starting transfer")

	tempPath := fmt.Sprintf("%s.%s.part", destPath, uuid.NewString()[:8])
	downloaded, err := m.streamToFile(ctx, req.URL, remote.Body, tempPath)
	if err != nil {
		os.Remove(tempPath)
		if utils.IsCancelled(err) {
			logger.Info().Msg("Transfer stopped")
		} else {
			m.store.Fail(req.URL, err)
			logger.Error().Err(err).Msg("Transfer failed")
		}
		return nil, err
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		err = &utils.IOError{Path: destPath, Err: err}
		m.store.Fail(req.URL, err)
		return nil, err
	}
	m.store.Complete(req.URL)
	logger.Info().Str("file", name).Str("size", utils.FormatBytes(uint64(downloaded))).Msg("Transfer completed")
	return &Result{
		FilePath: destPath,
		FileName: name,
		FileSize: downloaded,
	}, nil
}

func (m *Manager) streamToFile(ctx context.Context, url string, body io.Reader, tempPath string) (int64, error) {
	out, err := os.Create(tempPath)
	if err != nil {
		return 0, &utils.IOError{Path: tempPath, Err: err}
	}
	defer out.Close()

	buffer := make([]byte, m.cfg.BufferSize)
	var downloaded int64
	for {
		bytesRead, readErr := body.Read(buffer)
		if bytesRead > 0 {
			// Cancellation check before each chunk write: the store
			// record flips to stopped when any actor requests a stop.
			if err := m.interrupted(ctx, url); err != nil {
				return downloaded, err
			}
			if _, writeErr := out.Write(buffer[:bytesRead]); writeErr != nil {
				return downloaded, &utils.IOError{Path: tempPath, Err: writeErr}
			}
			downloaded += int64(bytesRead)
			m.store.Advance(url, int64(bytesRead))
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			if err := m.interrupted(ctx, url); err != nil {
				return downloaded, err
			}
			return downloaded, &utils.NetworkError{URL: url, Err: readErr}
		}
	}
	if err := out.Close(); err != nil {
		return downloaded, &utils.IOError{Path: tempPath, Err: err}
	}
	return downloaded, nil
}

// interrupted reports a cancellation observed either through the
// context or through a stopped store record.
func (m *Manager) interrupted(ctx context.Context, url string) error {
	if ctx.Err() != nil {
		m.store.Stop(url)
		return fmt.Errorf("%s: %w", url, utils.ErrCancelled)
	}
	if info, exists := m.store.Get(url); exists && info.Status == progress.StatusStopped {
		return fmt.Errorf("%s: %w", url, utils.ErrCancelled)
	}
	return nil
}

// Cancel requests a stop for one in-flight transfer. The download loop
// observes it on its next chunk.
func (m *Manager) Cancel(url string) bool {
	return m.store.Stop(url)
}

// CancelAll stops every non-terminal transfer and returns the count.
func (m *Manager) CancelAll() int {
	return m.store.StopAll()
}

// Active returns the current progress snapshots.
func (m *Manager) Active() []progress.Snapshot {
	return m.store.ListActive()
}
