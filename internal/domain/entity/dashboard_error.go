package entity

// Section level failure messages reported in WalletDashboard.Errors.
const (
	ErrMsgWalletAssets        = "Failed to fetch wallet assets"
	ErrMsgTransactionDetails  = "Failed to fetch transaction details"
	ErrMsgTransactionSigs     = "Failed to fetch transaction signatures"
	ErrMsgTransactionsGeneric = "Failed to process transactions"
)
