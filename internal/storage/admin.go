package storage

import "slices"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

const (
	PermCadastros  = "cadastros"
	PermDiarias    = "diarias"
	PermServicos   = "servicos"
	PermProducao   = "producao"
	PermRelatorios = "relatorios"
)

var AllPermissions = []string{PermCadastros, PermDiarias, PermServicos, PermProducao, PermRelatorios}

type Company struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CNPJ         string `json:"cnpj"`
	DatabaseName string `json:"database_name"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

type User struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	IsActive     bool     `json:"is_active"`
}

func (u *User) Can(perm string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return slices.Contains(u.Permissions, perm)
}
