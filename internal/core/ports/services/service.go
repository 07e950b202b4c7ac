package services

// ServiceContainer aggregates the engine's service facades for embedding applications.
type ServiceContainer struct {
	Settings     SettingsSvcFacade
	History      HistorySvcFacade
	ExchangeRate ExchangeRateSvcFacade
}
