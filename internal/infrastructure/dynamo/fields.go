package dynamo

// DynamoDB attribute names used in update expressions across the repos.
const (
	fieldEnable           = "enable"
	fieldDeletedAt        = "deleted_at"
	fieldReaded           = "readed"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldStatus           = "status"
)
