package rdbms

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/errs"
	go_ora "github.com/sijms/go-ora/v2"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/xo/dburl"
)

var defaultPorts = map[string]int{
	constants.ConnectionTypeMySql:     3306,
	constants.ConnectionTypeOracle:    1521,
	constants.ConnectionTypeSqlServer: 1433,
	constants.ConnectionTypePostgres:  5432,
}

var (
	reOracleSid     = regexp.MustCompile(`^([^:/]+):([0-9]+):([A-Za-z0-9_$#]+)$`)
	reOracleService = regexp.MustCompile(`^([^:/]+)(?::([0-9]+))?/(.+)$`)
)

// JdbcUrl holds the parts of a JDBC connection string that the Go drivers need.
type JdbcUrl struct {
	Dialect  string
	Host     string
	Port     int
	Database string
	Schema   string
	Service  string // Oracle service name.
	SID      string // Oracle SID.
	Params   url.Values
}

// Dsn is a Go driver name and data source name pair, with a copy of the DSN that is safe to log.
type Dsn struct {
	Driver   string
	Dsn      string
	Redacted string
}

func (d Dsn) String() string {
	return d.Redacted
}

// ParseJdbc converts connection strings of the form:
//
//	jdbc:mysql://host:3306/db
//	jdbc:oracle:thin:@//host:1521/service
//	jdbc:oracle:thin:@host:1521:SID
//	jdbc:sqlserver://host:1433;databaseName=db
//	jdbc:postgresql://host:5432/db
//	jdbc:snowflake://account.snowflakecomputing.com/?warehouse=w&db=d&schema=s
func ParseJdbc(jdbc string) (*JdbcUrl, error) {
	s := strings.TrimSpace(jdbc)
	if !strings.HasPrefix(strings.ToLower(s), "jdbc:") {
		return nil, errs.NewConfigurationError("jdbc", "connection string does not start with jdbc:")
	}
	s = s[len("jdbc:"):]
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "mysql://"):
		return parseUrlStyle(constants.ConnectionTypeMySql, s)
	case strings.HasPrefix(lower, "postgresql://"):
		return parseUrlStyle(constants.ConnectionTypePostgres, s)
	case strings.HasPrefix(lower, "oracle:thin:@"):
		return parseOracle(s[len("oracle:thin:@"):])
	case strings.HasPrefix(lower, "sqlserver://"):
		return parseSqlServer(s[len("sqlserver://"):])
	case strings.HasPrefix(lower, "snowflake://"):
		return parseSnowflake(s)
	default:
		return nil, errs.NewConfigurationError("jdbc", "unsupported connection string type %q", strings.SplitN(s, ":", 2)[0])
	}
}

func parseUrlStyle(dialect string, s string) (*JdbcUrl, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errs.NewConfigurationError("jdbc", "bad %v connection string: %v", dialect, err)
	}
	j := &JdbcUrl{
		Dialect:  dialect,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		Params:   u.Query(),
	}
	if j.Port, err = getPort(dialect, u.Port()); err != nil {
		return nil, err
	}
	if j.Host == "" {
		return nil, errs.NewConfigurationError("jdbc", "missing host in %v connection string", dialect)
	}
	return j, nil
}

func parseOracle(s string) (*JdbcUrl, error) {
	if strings.HasPrefix(s, "(") {
		return nil, errs.NewConfigurationError("jdbc", "oracle TNS descriptors are not supported, use //host:port/service")
	}
	s = strings.TrimPrefix(s, "//")
	j := &JdbcUrl{Dialect: constants.ConnectionTypeOracle, Params: url.Values{}}
	var port string
	if m := reOracleSid.FindStringSubmatch(s); m != nil {
		j.Host, port, j.SID = m[1], m[2], m[3]
	} else if m := reOracleService.FindStringSubmatch(s); m != nil {
		j.Host, port, j.Service = m[1], m[2], m[3]
	} else {
		return nil, errs.NewConfigurationError("jdbc", "unable to parse oracle connection string")
	}
	var err error
	if j.Port, err = getPort(j.Dialect, port); err != nil {
		return nil, err
	}
	return j, nil
}

func parseSqlServer(s string) (*JdbcUrl, error) {
	parts := strings.Split(s, ";")
	j := &JdbcUrl{Dialect: constants.ConnectionTypeSqlServer, Params: url.Values{}}
	hostPort := strings.TrimSuffix(parts[0], "/")
	port := ""
	if i := strings.LastIndex(hostPort, ":"); i >= 0 {
		hostPort, port = hostPort[:i], hostPort[i+1:]
	}
	j.Host = hostPort
	if j.Host == "" {
		return nil, errs.NewConfigurationError("jdbc", "missing host in sqlserver connection string")
	}
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, errs.NewConfigurationError("jdbc", "bad sqlserver property %q", p)
		}
		switch strings.ToLower(kv[0]) {
		case "databasename", "database":
			j.Database = kv[1]
		case "portnumber", "port":
			port = kv[1]
		case "user", "password": // credentials come from the secret only.
		default:
			j.Params.Set(kv[0], kv[1])
		}
	}
	var err error
	if j.Port, err = getPort(j.Dialect, port); err != nil {
		return nil, err
	}
	return j, nil
}

func parseSnowflake(s string) (*JdbcUrl, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errs.NewConfigurationError("jdbc", "bad snowflake connection string: %v", err)
	}
	q := u.Query()
	j := &JdbcUrl{
		Dialect: constants.ConnectionTypeSnowflake,
		Host:    u.Hostname(),
		Params:  url.Values{},
	}
	for k, v := range q {
		switch strings.ToLower(k) {
		case "db", "database":
			j.Database = v[0]
		case "schema":
			j.Schema = v[0]
		default:
			j.Params[strings.ToLower(k)] = v
		}
	}
	if j.Host == "" {
		return nil, errs.NewConfigurationError("jdbc", "missing account host in snowflake connection string")
	}
	return j, nil
}

func getPort(dialect string, port string) (int, error) {
	if port == "" {
		return defaultPorts[dialect], nil
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return 0, errs.NewConfigurationError("jdbc", "bad port %q in %v connection string", port, dialect)
	}
	return p, nil
}

// WithDatabase returns a copy of j that points at database and schema instead.
// Empty values leave the original setting in place.
func (j JdbcUrl) WithDatabase(database string, schema string) *JdbcUrl {
	if database != "" {
		j.Database = database
	}
	if schema != "" {
		j.Schema = schema
	}
	p := url.Values{}
	for k, v := range j.Params {
		p[k] = v
	}
	j.Params = p
	return &j
}

// Dsn builds the Go driver connection details for j using the supplied credentials.
func (j *JdbcUrl) Dsn(user string, password string) (*Dsn, error) {
	switch j.Dialect {
	case constants.ConnectionTypeMySql, constants.ConnectionTypeSqlServer, constants.ConnectionTypePostgres:
		return j.dburlDsn(user, password)
	case constants.ConnectionTypeOracle:
		return j.oracleDsn(user, password)
	case constants.ConnectionTypeSnowflake:
		return j.snowflakeDsn(user, password)
	default:
		return nil, errs.UnsupportedDialectError{Dialect: j.Dialect, Op: "dsn"}
	}
}

// dburlDsn lets xo/dburl translate a standard URL into the driver specific DSN.
func (j *JdbcUrl) dburlDsn(user string, password string) (*Dsn, error) {
	q := url.Values{}
	for k, v := range j.Params {
		q[k] = v
	}
	u := url.URL{
		User: url.UserPassword(user, password),
		Host: fmt.Sprintf("%v:%v", j.Host, j.Port),
	}
	switch j.Dialect {
	case constants.ConnectionTypeMySql:
		u.Scheme = "mysql"
		u.Path = "/" + j.Database
		q.Set("parseTime", "true")
	case constants.ConnectionTypePostgres:
		u.Scheme = "postgres"
		u.Path = "/" + j.Database
	case constants.ConnectionTypeSqlServer:
		u.Scheme = "sqlserver"
		if j.Database != "" {
			q.Set("database", j.Database)
		}
	}
	u.RawQuery = q.Encode()
	d, err := dburl.Parse(u.String())
	if err != nil {
		return nil, errs.NewConfigurationError("dsn", "unable to build %v DSN: %v", j.Dialect, err)
	}
	return &Dsn{Driver: d.Driver, Dsn: d.DSN, Redacted: d.Redacted()}, nil
}

func (j *JdbcUrl) oracleDsn(user string, password string) (*Dsn, error) {
	options := map[string]string{}
	for k, v := range j.Params {
		options[k] = v[0]
	}
	if j.SID != "" {
		options["SID"] = j.SID
	}
	dsn := go_ora.BuildUrl(j.Host, j.Port, j.Service, user, password, options)
	redacted := go_ora.BuildUrl(j.Host, j.Port, j.Service, user, "xxxxxxx", options)
	return &Dsn{Driver: "oracle", Dsn: dsn, Redacted: redacted}, nil
}

func (j *JdbcUrl) snowflakeDsn(user string, password string) (*Dsn, error) {
	cfg := &sf.Config{
		Account:   strings.TrimSuffix(j.Host, ".snowflakecomputing.com"),
		Database:  j.Database,
		Schema:    j.Schema,
		User:      user,
		Password:  password,
		Warehouse: j.Params.Get("warehouse"),
		Role:      j.Params.Get("role"),
	}
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, errs.NewConfigurationError("dsn", "unable to build snowflake DSN: %v", err)
	}
	redacted := fmt.Sprintf("%v:%v@%v/%v?schema=%v&warehouse=%v&role=%v",
		cfg.User, "xxxxxxx", cfg.Account, cfg.Database, cfg.Schema, cfg.Warehouse, cfg.Role)
	return &Dsn{Driver: "snowflake", Dsn: dsn, Redacted: redacted}, nil
}

// JdbcToDsn parses jdbc and builds the Go driver DSN for the supplied credentials.
func JdbcToDsn(jdbc string, user string, password string) (*Dsn, error) {
	j, err := ParseJdbc(jdbc)
	if err != nil {
		return nil, err
	}
	return j.Dsn(user, password)
}
