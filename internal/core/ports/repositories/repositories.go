package repositories

// Store is a complete persistence backend. Documents, Payments and Modules
// operate outside any transaction; Begin opens a unit of work.
type Store interface {
	UnitOfWork
	Documents() DocumentRepositoryFacade
	Payments() PaymentRepositoryFacade
	Modules() ModuleSettingsRepository
	Close()
}
