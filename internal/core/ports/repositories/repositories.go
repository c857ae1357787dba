package repositories

// LedgerRepositoryFacade combines the plain-read operations on the account
// store and the transaction log store.
type LedgerRepositoryFacade interface {
	AccountReader
	TransactionReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with the atomic
// unit-of-work capability the mutating operations require.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
