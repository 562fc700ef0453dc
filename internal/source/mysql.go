package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"go.uber.org/zap"

	"sensor-bi-service/internal/models"
)

// mysqlDateTime формат DATETIME без parseTime
const mysqlDateTime = "2006-01-02 15:04:05.999999"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MySQLConfig конфигурация реляционного источника
type MySQLConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
	// Columns имена колонок для codigo, codigoSensor, valor, dataColeta
	Columns MySQLColumns `yaml:"columns"`
	// ConnectAttempts количество попыток проверки соединения при старте
	ConnectAttempts uint `yaml:"connect_attempts"`
}

// MySQLColumns имена колонок таблицы показаний
type MySQLColumns struct {
	SourceID    string `yaml:"source_id"`
	SensorCode  string `yaml:"sensor_code"`
	Value       string `yaml:"value"`
	CollectedAt string `yaml:"collected_at"`
}

// WithDefaults заполняет незаданные имена таблицы и колонок
func (c MySQLConfig) WithDefaults() MySQLConfig {
	if c.Table == "" {
		c.Table = "leituras"
	}
	if c.Columns.SourceID == "" {
		c.Columns.SourceID = "codigo"
	}
	if c.Columns.SensorCode == "" {
		c.Columns.SensorCode = "codigoSensor"
	}
	if c.Columns.Value == "" {
		c.Columns.Value = "valor"
	}
	if c.Columns.CollectedAt == "" {
		c.Columns.CollectedAt = "dataColeta"
	}
	if c.ConnectAttempts == 0 {
		c.ConnectAttempts = 5
	}
	return c
}

// NewDbConnection открывает пул соединений и проверяет его с повторами
func NewDbConnection(ctx context.Context, config MySQLConfig, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("mysql", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	err = retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(config.WithDefaults().ConnectAttempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnw("mysql: ping failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping error: %w", err)
	}
	return db, nil
}

// MySQL загружает показания из таблицы. Каждая загрузка берет собственное
// соединение из пула и возвращает его по завершении.
type MySQL struct {
	db     *sql.DB
	query  string
	logger *zap.SugaredLogger
}

// NewMySQL создает источник над открытым пулом
func NewMySQL(db *sql.DB, config MySQLConfig, logger *zap.SugaredLogger) (*MySQL, error) {
	config = config.WithDefaults()
	cols := []string{
		config.Columns.SourceID,
		config.Columns.SensorCode,
		config.Columns.Value,
		config.Columns.CollectedAt,
	}
	for _, name := range append([]string{config.Table}, cols...) {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("mysql: invalid identifier %q", name)
		}
	}

	query := fmt.Sprintf("SELECT `%s`, `%s`, `%s`, `%s` FROM `%s` ORDER BY `%s`",
		cols[0], cols[1], cols[2], cols[3], config.Table, cols[0])

	return &MySQL{db: db, query: query, logger: logger}, nil
}

// Name возвращает имя источника
func (m *MySQL) Name() string { return KindMySQL }

// Fetch читает все показания таблицы
func (m *MySQL) Fetch(ctx context.Context) ([]models.RawReading, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("mysql: acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, m.query)
	if err != nil {
		return nil, fmt.Errorf("mysql: query readings: %w", err)
	}
	defer rows.Close()

	readings := make([]models.RawReading, 0)
	for rows.Next() {
		var (
			r         models.RawReading
			value     sql.NullString
			collected sql.NullString
		)
		if err := rows.Scan(&r.SourceID, &r.SensorCode, &value, &collected); err != nil {
			return nil, fmt.Errorf("mysql: scan reading: %w", err)
		}
		r.Value = value.String
		r.CollectedAt = isoDateTime(collected.String)
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: read rows: %w", err)
	}

	m.logger.Debugw("mysql: readings loaded", "count", len(readings))
	return readings, nil
}

// isoDateTime переводит DATETIME (UTC) в ISO-8601; прочие строки не меняет
func isoDateTime(s string) string {
	t, err := time.Parse(mysqlDateTime, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
