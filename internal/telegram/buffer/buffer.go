package buffer

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/patrickmn/go-cache"
)

// chatState is what the bot remembers about one chat between messages.
type chatState struct {
	files        []entity.UploadedFile
	lastAnalysis string
}

// Store keeps uploaded files and the last analysis per chat. Entries expire
// ttl after the last write.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		return &Store{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &Store{cache: cache.New(ttl, ttl)}
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// load must be called with mu held.
func (s *Store) load(chatID int64) *chatState {
	if v, ok := s.cache.Get(key(chatID)); ok {
		return v.(*chatState)
	}
	return &chatState{}
}

// AddFile appends a file to the chat buffer and returns the buffered count.
func (s *Store) AddFile(chatID int64, file entity.UploadedFile) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(chatID)
	st.files = append(st.files, file)
	s.cache.SetDefault(key(chatID), st)
	return len(st.files)
}

// Files returns a copy of the buffered files in arrival order.
func (s *Store) Files(chatID int64) []entity.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(chatID)
	out := make([]entity.UploadedFile, len(st.files))
	copy(out, st.files)
	return out
}

// ClearFiles drops buffered files and returns how many there were.
// The last analysis survives so /sheet keeps working after /analyze.
func (s *Store) ClearFiles(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(chatID)
	n := len(st.files)
	if n == 0 {
		return 0
	}
	st.files = nil
	s.cache.SetDefault(key(chatID), st)
	return n
}

// DropFiles removes the n oldest buffered files and keeps anything that
// arrived after them. It returns how many files remain.
func (s *Store) DropFiles(chatID int64, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(chatID)
	if n <= 0 {
		return len(st.files)
	}
	if n >= len(st.files) {
		st.files = nil
	} else {
		st.files = append([]entity.UploadedFile(nil), st.files[n:]...)
	}
	s.cache.SetDefault(key(chatID), st)
	return len(st.files)
}

func (s *Store) SetLastAnalysis(chatID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(chatID)
	st.lastAnalysis = text
	s.cache.SetDefault(key(chatID), st)
}

func (s *Store) LastAnalysis(chatID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(chatID)
	return st.lastAnalysis, st.lastAnalysis != ""
}
