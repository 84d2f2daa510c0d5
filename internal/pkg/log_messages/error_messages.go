package log_messages

const (
	FailedLoadingConfiguration       = "failed loading configuration"
	ErrorConnectingToMongoDB         = "error connecting to MongoDB"
	ErrorFetchingLoansMongoDBDoc     = "error fetching documents from loan collection"
	ErrorFetchingUsersMongoDBDoc     = "error fetching document from user collection"
	ErrorFetchingPaymentsMongoDBDoc  = "error fetching documents from payment collection"
	EmptyDocumentFoundFromDb         = "no associated mongodb document found"
	ErrorUpdatingLoanDocument        = "error updating loan document"
	ErrorUpdatingUserDocument        = "error updating user document"
	ErrorWritingBackupArtifact       = "error writing backup artifact"
	ErrorMarshallingJSON             = "error marshalling data to JSON"
	ErrorUploadingToGCSBucket        = "error uploading artifact to GCS bucket"
	ErrorClosingGCSWriter            = "error closing GCS writer"
	ErrorClosingGCSClient            = "error closing GCS client"
	ErrorSendingEmailNotification    = "error sending email notification"
	EmailNotConfigured               = "email variables not configured, skipping notification"
	ErrorAcquiringRunLock            = "error acquiring run lock"
	RunLockHeldByAnotherProcess      = "run lock held by another process, skipping run"
	FloatFieldsInAmortizationTable   = "loan has non-integer fields in amortization table"
	InvalidTermInPaymentTransactions = "invalid term in payment transactions"
	LoanWithoutAmortizationTable     = "loan has no amortization table"
)
