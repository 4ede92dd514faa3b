package flagmap

// Store holds the flagmapping entries of one package. Every category observed
// for a flag is retained, in file order.
type Store struct {
	order   []string
	history map[string][]string
	entries []Entry
}

func NewStore() *Store {
	return &Store{history: make(map[string][]string)}
}

// Add records one more category observation for flag.
func (s *Store) Add(flag, category string) {
	if category == "" {
		category = Unknown
	}
	if _, seen := s.history[flag]; !seen {
		s.order = append(s.order, flag)
	}
	s.history[flag] = append(s.history[flag], category)
	s.entries = append(s.entries, Entry{Flag: flag, Category: category})
}

// Categories returns every category recorded for flag. The result is nil for
// flags never seen.
func (s *Store) Categories(flag string) []string {
	if s == nil {
		return nil
	}
	cats := s.history[flag]
	if len(cats) == 0 {
		return nil
	}
	return append([]string(nil), cats...)
}

// Category returns the category of flag when exactly one was recorded.
func (s *Store) Category(flag string) (string, bool) {
	if s == nil {
		return "", false
	}
	cats := s.history[flag]
	if len(cats) != 1 {
		return "", false
	}
	return cats[0], true
}

// Has reports whether flag appeared at least once.
func (s *Store) Has(flag string) bool {
	if s == nil {
		return false
	}
	_, ok := s.history[flag]
	return ok
}

// Flags returns distinct flags in first-seen order.
func (s *Store) Flags() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Len returns the number of distinct flags.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Entries returns the raw entries in file order, duplicates included.
func (s *Store) Entries() []Entry {
	if s == nil {
		return nil
	}
	return append([]Entry(nil), s.entries...)
}
