package constants

// Messages printed by the clean command or sent to the admin chat.
const (
	// MsgExecuting announces a sweep with its time limit in seconds.
	MsgExecuting = "Executing... (time limit: %d seconds)"

	// MsgConfigInvalid prefixes the list of validation errors.
	MsgConfigInvalid = "Configuration validation failed:"
)
