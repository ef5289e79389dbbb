package receiving

import (
	"fmt"
	"strconv"

	"github.com/jhoicas/warehouse-ops/internal/domain"
)

// DefaultBoxSuggestions son los multiplicadores ofrecidos al abrir el diálogo de modo caja.
var DefaultBoxSuggestions = []int{6, 10, 12, 20}

// ScanMode es la configuración de escaneo de un operador en una sesión.
// El valor cero equivale al modo unitario.
type ScanMode struct {
	Box        bool
	Multiplier int
}

// SingleMode devuelve el modo unitario (+1 por escaneo).
func SingleMode() ScanMode {
	return ScanMode{}
}

// NewBoxMode valida el multiplicador y devuelve el modo caja.
func NewBoxMode(multiplier int) (ScanMode, error) {
	if multiplier < 1 {
		return ScanMode{}, domain.ErrInvalidMultiplier
	}
	return ScanMode{Box: true, Multiplier: multiplier}, nil
}

// Quantity es la cantidad que aporta un escaneo en este modo.
func (m ScanMode) Quantity() int {
	if m.Box && m.Multiplier >= 1 {
		return m.Multiplier
	}
	return 1
}

// TagCode marca el código crudo cuando el escaneo se hizo en modo caja.
func (m ScanMode) TagCode(code string) string {
	if !m.Box {
		return code
	}
	return "BOX" + strconv.Itoa(m.Quantity()) + ":" + code
}

// ModeConfig es el estado del diálogo de modo caja de un operador.
// Mientras Pending es true el modo activo sigue siendo Active.
type ModeConfig struct {
	Active      ScanMode
	Pending     bool
	Suggestions []int
}

// RequestBox abre el diálogo de configuración sin cambiar el modo activo.
func (c *ModeConfig) RequestBox(suggestions []int) {
	c.Pending = true
	if len(suggestions) == 0 {
		suggestions = DefaultBoxSuggestions
	}
	c.Suggestions = append([]int(nil), suggestions...)
}

// ConfirmBox activa el modo caja con el multiplicador confirmado.
func (c *ModeConfig) ConfirmBox(multiplier int) error {
	if !c.Pending {
		return fmt.Errorf("%w: no hay configuración de caja pendiente", domain.ErrConflict)
	}
	mode, err := NewBoxMode(multiplier)
	if err != nil {
		return err
	}
	c.Active = mode
	c.Pending = false
	return nil
}

// CancelBox cierra el diálogo y conserva el modo anterior.
func (c *ModeConfig) CancelBox() {
	c.Pending = false
}

// DisableBox vuelve al modo unitario.
func (c *ModeConfig) DisableBox() {
	c.Active = SingleMode()
	c.Pending = false
}
