package constants

// Table sync

const (
	LoadTypeFull                 = "FULL"
	LoadTypeIncremental          = "INCREMENTAL"
	JobRunStateSucceeded         = "SUCCEEDED"
	WatermarkNoOverride          = "N"                   // sentinel used by job parameters to mean "resolve from job history"
	WatermarkDefault             = "2024-01-01 00:00:00" // beginning of history when no run has succeeded
	TimeFormatWatermark          = "2006-01-02 15:04:05"
	TimeFormatWatermarkRegex     = `^[0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2}$`
	TimeFormatYearSeconds        = "20060102T150405" // used for human readable file names
	LoadTimestampFieldName       = "_LOAD_TIMESTAMP"
	TempTableSuffix              = "_tmp"
	InsertBatchSizeDefault       = 1000
	ConnectionTypeMySql          = "mysql"
	ConnectionTypeOracle         = "oracle"
	ConnectionTypeSqlServer      = "sqlserver"
	ConnectionTypePostgres       = "postgres"
	ConnectionTypeSnowflake      = "snowflake"
	ConnectionTypeS3             = "s3"
	EnvVarPrefix                 = "DPU" // prefixed for environment variables in twelveFactorMode
	EnvVarConnectionsFile        = EnvVarPrefix + "_CONNECTIONS_FILE"
	ShareWorkstationNameDefault  = "etl-process"
	SharePortDefault             = 445
	EmailSourceArnDefault        = "AASDFASDF" // placeholder identity ARN until callers supply their own
	EmailNoDataPrefix            = "Note: No data is available for todays feed, if you feel this is in error please contact us...... "
	TeamsThemeColor              = "0076D7"
	TeamsSuccessImage            = "https://adaptivecards.io/content/cats/1.png"
	TeamsFailureImage            = "https://adaptivecards.io/content/cats/3.png"
	EmojiBang                    = "\U0001F4A5"
	ActionFuncsCommandSync       = "sync"
	ActionFuncsCommandEmail      = "email"
	ActionFuncsCommandAlert      = "alert"
	ActionFuncsCommandShare      = "share"
	ActionFuncsSubCommandTables  = "tables"
	ActionFuncsSubCommandSend    = "send"
	ActionFuncsSubCommandTeams   = "teams"
	ActionFuncsSubCommandS3Share = "s3-to-share"
	ActionFuncsSubCommandShareS3 = "share-to-s3"
)
