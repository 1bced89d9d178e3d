package entity

import "time"

// Planes de suscripción. El plan gratuito no tiene acceso a movimientos de stock.
const (
	PlanGratuito = "gratuito"
	PlanPremium  = "premium"
)

// User representa una cuenta de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Plan         string // gratuito | premium
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
