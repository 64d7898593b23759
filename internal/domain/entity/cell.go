package entity

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
)

// Cell variante de un producto en una bodega con su cantidad en stock.
// La identidad es (Name, PartNumber, ModelNo, Warehouse) sin distinguir mayúsculas.
type Cell struct {
	ID         string
	Name       string
	PartNumber string
	ModelNo    string
	Warehouse  string
	Quantity   int64
	Category   string
	ImageURL   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CellFilter filtros de listado de celdas.
type CellFilter struct {
	Search    string // nombre, número de parte o modelo
	Warehouse string
	Category  string
	Limit     int
	Offset    int
}

const keySep = "\x1f"

// fold crea un Caser por llamada: los Caser no son seguros entre goroutines.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// IdentityKey clave de unicidad de la celda (plegado Unicode de los cuatro campos).
func (c *Cell) IdentityKey() string {
	return CellIdentityKey(c.Name, c.PartNumber, c.ModelNo, c.Warehouse)
}

// GroupKey clave del producto lógico (nombre + número de parte) para agrupar variantes.
func (c *Cell) GroupKey() string {
	return CellGroupKey(c.Name, c.PartNumber)
}

// CellIdentityKey construye la clave de identidad.
func CellIdentityKey(name, partNumber, modelNo, warehouse string) string {
	return strings.Join([]string{fold(name), fold(partNumber), fold(modelNo), fold(warehouse)}, keySep)
}

// CellGroupKey construye la clave de agrupación de variantes.
func CellGroupKey(name, partNumber string) string {
	return fold(name) + keySep + fold(partNumber)
}

// HasControlChars indica si s contiene caracteres de control. Los campos de identidad
// no los admiten porque keySep es uno de ellos.
func HasControlChars(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// EqualFold compara dos textos con plegado Unicode.
func EqualFold(a, b string) bool {
	return fold(a) == fold(b)
}

// ContainsFold indica si s contiene sub sin distinguir mayúsculas.
func ContainsFold(s, sub string) bool {
	return strings.Contains(fold(s), fold(sub))
}

// Matches aplica el filtro a la celda (usado por adaptadores en memoria).
func (f CellFilter) Matches(c *Cell) bool {
	if f.Warehouse != "" && !EqualFold(c.Warehouse, f.Warehouse) {
		return false
	}
	if f.Category != "" && !EqualFold(c.Category, f.Category) {
		return false
	}
	if f.Search != "" &&
		!ContainsFold(c.Name, f.Search) &&
		!ContainsFold(c.PartNumber, f.Search) &&
		!ContainsFold(c.ModelNo, f.Search) {
		return false
	}
	return true
}
