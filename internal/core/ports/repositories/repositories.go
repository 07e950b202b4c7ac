package repositories

// RepositoryProvider aggregates the repositories the service layer depends on.
type RepositoryProvider struct {
	EntityRepo       EntityRepositoryFacade
	SettingsRepo     SettingsRepositoryWithTx
	HistoryRepo      HistoryRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
}
