package rdbms

// Credentials is the JSON document held in the secrets store for a database connection.
type Credentials struct {
	Jdbc     string `mapstructure:"jdbc" errorTxt:"jdbc connection string" mandatory:"yes"`
	Username string `mapstructure:"username" errorTxt:"username" mandatory:"yes"`
	Password string `mapstructure:"password" errorTxt:"password"`
}

// ConnectionProfile is a logical connection resolved to its dialect and credentials.
// It lives for one job run.
type ConnectionProfile struct {
	Name        string
	Dialect     string
	Credentials Credentials
}

func (p ConnectionProfile) String() string {
	return p.Name + " (" + p.Dialect + ")"
}

// GetDialect returns the SQL dialect of the profile.
func (p ConnectionProfile) GetDialect() (Dialect, error) {
	return GetDialect(p.Dialect)
}

// GetDsn builds the driver DSN for the profile.
// Database and schema override the values found in the JDBC string when not empty.
func (p ConnectionProfile) GetDsn(database string, schema string) (*Dsn, error) {
	j, err := ParseJdbc(p.Credentials.Jdbc)
	if err != nil {
		return nil, err
	}
	return j.WithDatabase(database, schema).Dsn(p.Credentials.Username, p.Credentials.Password)
}
