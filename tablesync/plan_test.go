package tablesync_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/rdbms"
	"github.com/relloyd/dpu/tablesync"
)

func days(n tablesync.Days) *tablesync.Days { return &n }

func profile(dialect string) rdbms.ConnectionProfile {
	return rdbms.ConnectionProfile{Name: "src", Dialect: dialect}
}

func baseSpec(loadType tablesync.LoadType) tablesync.TableSpec {
	return tablesync.TableSpec{
		SourceDb:     "kwi",
		SourceSchema: "kwi_usa",
		SourceTable:  "orders",
		TargetDb:     "RAW",
		TargetSchema: "KWI",
		TargetTable:  "ORDERS",
		CdcColumn:    "updated_at",
		LoadType:     loadType,
	}
}

var _ = Describe("BuildPlan", func() {
	Context("full loads", func() {
		It("truncates the exact target table and selects everything", func() {
			p, err := tablesync.BuildPlan(baseSpec(tablesync.LoadTypeFull), profile("oracle"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).To(BeEmpty())
			Expect(p.Query).To(Equal("SELECT * FROM kwi_usa.orders"))
			Expect(p.PreActions).To(Equal([]string{"TRUNCATE TABLE RAW.KWI.ORDERS"}))
			Expect(p.PostActions).To(BeEmpty())
			Expect(p.WriteTable).To(Equal("ORDERS"))
		})

		It("ignores the primary key and does not need a watermark", func() {
			s := baseSpec(tablesync.LoadTypeFull)
			s.PrimaryKey = "id"
			p, err := tablesync.BuildPlan(s, profile("snowflake"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.PreActions).To(HaveLen(1))
			Expect(p.WriteTable).To(Equal("ORDERS"))
		})
	})

	Context("incremental loads with a lookback window", func() {
		It("uses mysql date arithmetic and appends when there is no key", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			s.CdcColumn = "col"
			s.LookbackDays = days(7)
			p, err := tablesync.BuildPlan(s, profile("mysql"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).To(Equal("col >= CURDATE()-7"))
			Expect(p.Query).To(Equal("SELECT * FROM kwi_usa.orders a WHERE col >= CURDATE()-7"))
			Expect(p.PreActions).To(BeEmpty())
			Expect(p.PostActions).To(BeEmpty())
			Expect(p.WriteTable).To(Equal("ORDERS"))
		})

		It("uses oracle date arithmetic and ignores the watermark", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			s.LookbackDays = days(3)
			p, err := tablesync.BuildPlan(s, profile("oracle"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).To(Equal("updated_at >= TRUNC(CURRENT_DATE)-3"))
			Expect(p.Predicate).NotTo(ContainSubstring("2024-03-01"))
		})

		It("treats a zero lookback as unset", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			s.LookbackDays = days(0)
			p, err := tablesync.BuildPlan(s, profile("mysql"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).To(Equal("updated_at >= STR_TO_DATE('2024-03-01 00:00:00','%Y-%m-%d %H:%i:%s')"))
		})
	})

	Context("incremental loads from a watermark", func() {
		It("merges through a temp table on oracle", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			s.PrimaryKey = "id"
			p, err := tablesync.BuildPlan(s, profile("oracle"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).NotTo(ContainSubstring("TRUNC(CURRENT_DATE)"))
			Expect(p.Predicate).To(Equal("updated_at >= TO_TIMESTAMP('2024-03-01 00:00:00','YYYY-MM-DD HH24:MI:SS')"))
			Expect(p.WriteTable).To(Equal("ORDERS_tmp"))
			Expect(p.PreActions).To(Equal([]string{"CREATE TABLE IF NOT EXISTS ORDERS_tmp LIKE ORDERS"}))
			Expect(p.PostActions).To(Equal([]string{
				"DELETE FROM ORDERS a USING ORDERS_tmp b WHERE a.id = b.id",
				"INSERT INTO ORDERS (SELECT * FROM ORDERS_tmp)",
				"DROP TABLE ORDERS_tmp",
			}))
		})

		It("joins composite keys with AND", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			s.PrimaryKey = "k1,k2"
			p, err := tablesync.BuildPlan(s, profile("mysql"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.PostActions[0]).To(HaveSuffix("WHERE a.k1 = b.k1 AND a.k2 = b.k2"))
		})

		It("supports sqlserver and postgres sources", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			p, err := tablesync.BuildPlan(s, profile("sqlserver"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).To(Equal("updated_at >= CONVERT(datetime2, '2024-03-01 00:00:00', 120)"))
			p, err = tablesync.BuildPlan(s, profile("postgres"), "2024-03-01 00:00:00")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predicate).To(HavePrefix("updated_at >= TO_TIMESTAMP("))
		})
	})

	Context("errors", func() {
		It("rejects unknown source dialects", func() {
			_, err := tablesync.BuildPlan(baseSpec(tablesync.LoadTypeIncremental), profile("db2"), "2024-03-01 00:00:00")
			var ude errs.UnsupportedDialectError
			Expect(errors.As(err, &ude)).To(BeTrue())
		})

		It("rejects the warehouse as an incremental source", func() {
			_, err := tablesync.BuildPlan(baseSpec(tablesync.LoadTypeIncremental), profile("snowflake"), "2024-03-01 00:00:00")
			var ude errs.UnsupportedDialectError
			Expect(errors.As(err, &ude)).To(BeTrue())
		})

		It("requires a watermark when there is no lookback", func() {
			_, err := tablesync.BuildPlan(baseSpec(tablesync.LoadTypeIncremental), profile("mysql"), "")
			var ce errs.ConfigurationError
			Expect(errors.As(err, &ce)).To(BeTrue())
		})

		It("rejects malformed watermarks before building SQL", func() {
			_, err := tablesync.BuildPlan(baseSpec(tablesync.LoadTypeIncremental), profile("mysql"), "2024-03-01'; DROP TABLE x; --")
			var ce errs.ConfigurationError
			Expect(errors.As(err, &ce)).To(BeTrue())
		})

		It("rejects unsafe identifiers", func() {
			s := baseSpec(tablesync.LoadTypeIncremental)
			s.CdcColumn = "updated_at OR 1=1"
			_, err := tablesync.BuildPlan(s, profile("mysql"), "2024-03-01 00:00:00")
			var ce errs.ConfigurationError
			Expect(errors.As(err, &ce)).To(BeTrue())
		})
	})
})
