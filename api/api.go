package api

import (
	"errors"
	"log"

	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "dosya-api",
			BodyLimit:    50 * 1024 * 1024, // course packet uploads
			ErrorHandler: errorHandler,
		}),
		listenAddress: listenAddress,
	}
}

// errorHandler keeps errors escaping the handlers in the response envelope
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c, "")
		case fiber.StatusMethodNotAllowed:
			return response.Error(c, fe.Code, response.MsgNotFound, "METHOD_NOT_ALLOWED")
		case fiber.StatusRequestEntityTooLarge:
			return response.Error(c, fe.Code, response.MsgInvalidPDF, "PAYLOAD_TOO_LARGE")
		}
		if fe.Code < fiber.StatusInternalServerError {
			return response.BadRequest(c, "")
		}
	}
	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "")
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Println("Starting API Server")
	log.Printf("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
