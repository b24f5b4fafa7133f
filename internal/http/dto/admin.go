package dto

// SetBusinessStatusRequest aprueba o suspende un business (admin).
type SetBusinessStatusRequest struct {
	Status string `json:"status"` // active | suspended
}

// AdminBusinessListResponse listado de tenants para la consola.
type AdminBusinessListResponse struct {
	Businesses []BusinessResponse `json:"businesses"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// PlatformStatsResponse totales de plataforma.
type PlatformStatsResponse struct {
	Businesses       int `json:"businesses"`
	ActiveBusinesses int `json:"active_businesses"`
	Providers        int `json:"providers"`
	Bookings         int `json:"bookings"`
	Reviews          int `json:"reviews"`
}
