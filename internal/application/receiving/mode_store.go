package receiving

import (
	"sync"

	domrcv "github.com/jhoicas/warehouse-ops/internal/domain/receiving"
)

type modeKey struct {
	sessionID  string
	operatorID string
}

// ModeStore guarda la configuración de escaneo por (sesión, operador).
// Es estado de proceso: al reiniciar, todos los operadores vuelven al modo unitario.
type ModeStore struct {
	mu          sync.Mutex
	modes       map[modeKey]domrcv.ModeConfig
	suggestions []int
}

// NewModeStore crea el almacén; suggestions vacío usa los multiplicadores por defecto.
func NewModeStore(suggestions []int) *ModeStore {
	if len(suggestions) == 0 {
		suggestions = domrcv.DefaultBoxSuggestions
	}
	return &ModeStore{
		modes:       make(map[modeKey]domrcv.ModeConfig),
		suggestions: append([]int(nil), suggestions...),
	}
}

// Get devuelve una copia de la configuración actual (modo unitario si no existe).
func (s *ModeStore) Get(sessionID, operatorID string) domrcv.ModeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes[modeKey{sessionID, operatorID}]
}

// Update aplica fn sobre la configuración y la guarda solo si fn no falla.
func (s *ModeStore) Update(sessionID, operatorID string, fn func(cfg *domrcv.ModeConfig) error) (domrcv.ModeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := modeKey{sessionID, operatorID}
	cfg := s.modes[key]
	if err := fn(&cfg); err != nil {
		return s.modes[key], err
	}
	s.modes[key] = cfg
	return cfg, nil
}

// Suggestions devuelve los multiplicadores ofrecidos en el diálogo.
func (s *ModeStore) Suggestions() []int {
	return append([]int(nil), s.suggestions...)
}

// Forget descarta la configuración de todos los operadores de la sesión.
func (s *ModeStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.modes {
		if k.sessionID == sessionID {
			delete(s.modes, k)
		}
	}
}
