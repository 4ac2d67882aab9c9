package progress

import (
	"sync"
	"time"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusStopped     Status = "stopped"
	StatusFailed      Status = "failed"
)

// Terminal reports whether no further mutation of the record occurs.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusStopped || s == StatusFailed
}

// Snapshot is the externally visible state of one transfer, keyed by
// its source URL. FileSize of 0 means the server did not report a size.
type Snapshot struct {
	URL        string
	FileName   string
	FileSize   int64
	Downloaded int64
	Status     Status
	Failure    string
	StartTime  time.Time
}

// Store is the shared registry of transfer progress records. It is the
// only mutable state shared between transfer goroutines; every mutation
// holds its mutex for a single bounded critical section. Writing
// StatusStopped to a record is also the cancellation channel: the
// download loop re-reads its record each chunk and aborts when it
// observes the stop.
type Store struct {
	mu        sync.RWMutex
	transfers map[string]*Snapshot
}

func NewStore() *Store {
	return &Store{transfers: make(map[string]*Snapshot)}
}

// Register creates (or replaces) the record for url and marks it
// downloading. A later transfer of the same URL overwrites the finished
// record of an earlier one.
func (s *Store) Register(url, fileName string, fileSize int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[url] = &Snapshot{
		URL:       url,
		FileName:  fileName,
		FileSize:  fileSize,
		Status:    StatusDownloading,
		StartTime: time.Now(),
	}
}

// SetMeta fills in the resolved file name and expected size once the
// remote stream is open. No-op after the record turns terminal.
func (s *Store) SetMeta(url, fileName string, fileSize int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, exists := s.transfers[url]; exists && !info.Status.Terminal() {
		info.FileName = fileName
		info.FileSize = fileSize
	}
}

// Advance adds n downloaded bytes to the record. The count never
// decreases, never exceeds a known file size, and freezes once the
// record is terminal.
func (s *Store) Advance(url string, n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	info, exists := s.transfers[url]
	if !exists || info.Status != StatusDownloading {
		return
	}
	info.Downloaded += n
	if info.FileSize > 0 && info.Downloaded > info.FileSize {
		info.Downloaded = info.FileSize
	}
}

// Complete marks the transfer finished and reconciles the byte counts:
// with a known size the download is full by definition, with an unknown
// size the bytes written become the size.
func (s *Store) Complete(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, exists := s.transfers[url]
	if !exists || info.Status.Terminal() {
		return
	}
	info.Status = StatusCompleted
	if info.FileSize > 0 {
		info.Downloaded = info.FileSize
	} else {
		info.FileSize = info.Downloaded
	}
}

func (s *Store) Fail(url string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, exists := s.transfers[url]
	if !exists || info.Status.Terminal() {
		return
	}
	info.Status = StatusFailed
	if err != nil {
		info.Failure = err.Error()
	}
}

// Stop requests cancellation of one transfer. Returns false when the
// record is unknown or already terminal.
func (s *Store) Stop(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, exists := s.transfers[url]
	if !exists || info.Status.Terminal() {
		return false
	}
	info.Status = StatusStopped
	return true
}

// StopAll transitions every non-terminal record to stopped and returns
// how many transfers were affected.
func (s *Store) StopAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, info := range s.transfers {
		if !info.Status.Terminal() {
			info.Status = StatusStopped
			count++
		}
	}
	return count
}

// Get returns a copy of the record for url.
func (s *Store) Get(url string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, exists := s.transfers[url]
	if !exists {
		return Snapshot{}, false
	}
	return *info, true
}

// ListActive returns copies of all current records in arbitrary order.
func (s *Store) ListActive() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshots := make([]Snapshot, 0, len(s.transfers))
	for _, info := range s.transfers {
		snapshots = append(snapshots, *info)
	}
	return snapshots
}

// Clear drops the record for url. Records are otherwise kept for the
// process lifetime so status queries can observe terminal states.
func (s *Store) Clear(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transfers, url)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transfers)
}
