package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/dpu/logger"
)

var _ = Describe("Logger", func() {
	log := logger.NewJsonLogger("test-service", "debug", true)

	parse := func(b *bytes.Buffer) map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(b.Bytes(), &actual)).To(Succeed())
		return actual
	}

	It("Should have `test-service` as service name", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)

		log.Info("Testing")

		Expect(parse(logOutput)["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)

		log.Info("Testing")

		Expect(parse(logOutput)["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)

		log.Warn("Testing")

		Expect(parse(logOutput)["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)

		log.Error("Testing")
		actual := parse(logOutput)

		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should not add a stack trace to errors unless asked", func() {
		quiet := logger.NewJsonLogger("test-service", "trace", false)
		logOutput := bytes.NewBufferString("")
		quiet.SetOutput(logOutput)

		quiet.Error("Testing")
		actual := parse(logOutput)

		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["msg"]).To(Equal("Testing"))
		Expect(actual).ToNot(HaveKey("stackTrace"))
	})

	It("Should have `Testing` as msg", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)

		log.Info("Testing")

		Expect(parse(logOutput)["msg"]).To(Equal("Testing"))
	})

	It("Should carry extra fields and keep the service name", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)

		log.WithFields(map[string]interface{}{"table": "db.schema.orders"}).Info("Complete")
		actual := parse(logOutput)

		Expect(actual["table"]).To(Equal("db.schema.orders"))
		Expect(actual["service"]).To(Equal("test-service"))
	})
})
