package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Cells         CellRepository
	Audit         AuditRepository
	Invoices      InvoiceRepository
	Users         UserRepository
	RoleRequests  RoleRequestRepository
	Notifications NotificationRepository
	Outbox        CredentialOutboxRepository
}
