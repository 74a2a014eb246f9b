package storage

type Worker struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CPF           string  `json:"cpf"`
	Phone         string  `json:"phone"`
	IsActive      bool    `json:"is_active"`
	AdmissionDate string  `json:"admission_date"`
	DeactivatedAt *string `json:"deactivated_at"`
}

type WorkerFilter struct {
	OnlyActive bool
	Search     string
}

type CostCenter struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
