package pos

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"next-pos/models"
	"next-pos/repository"
	"next-pos/utils"
)

const insufficientStockTitle = "Insufficient Stock"

// Exception classes the document store raises when stock would go negative
var stockExceptions = []string{"NegativeStockError", "InsufficientStockError"}

// Submitter sends assembled sales to the document store
type Submitter struct {
	repo repository.SaleRepositoryInterface
}

// NewSubmitter creates a submitter over a sale repository
func NewSubmitter(repo repository.SaleRepositoryInterface) *Submitter {
	return &Submitter{repo: repo}
}

// Submit performs the single create call for a sale and returns the document
// name. Every failure is returned as *models.ServerError.
func (s *Submitter) Submit(ctx context.Context, doc *models.SalesInvoice) (string, error) {
	name, err := s.repo.CreateSalesInvoice(ctx, doc)
	if err != nil {
		serverErr := ToServerError(err)
		log.Printf("❌ Submitter: sale for %s rejected [%s]: %s", doc.Customer, serverErr.Category, serverErr.Error())
		return "", serverErr
	}
	log.Printf("✅ Submitter: created %s for %s, %s (%s)", name, doc.Customer,
		utils.FormatMoney(decimal.NewFromFloat(doc.GrandTotal), doc.Currency), doc.Status)
	return name, nil
}

type serverMessage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ToServerError reduces any submission failure to a ServerError. Rejections
// from the document store are parsed from their error envelope; anything else
// is a transport failure.
func ToServerError(err error) *models.ServerError {
	var serverErr *models.ServerError
	if errors.As(err, &serverErr) {
		return serverErr
	}

	var remote *repository.RemoteError
	if !errors.As(err, &remote) {
		detail := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			detail = "the document store did not answer in time"
		}
		return &models.ServerError{
			Title:    "Could not reach the server",
			Detail:   detail,
			Category: models.CategoryTransport,
			Cause:    err,
		}
	}

	result := &models.ServerError{Category: models.CategoryGeneral, Cause: err}
	if msg, ok := firstServerMessage(remote.ServerMessages); ok {
		result.Title = utils.StripMarkup(msg.Title)
		result.Detail = utils.StripMarkup(msg.Message)
	}
	if result.Title == "" {
		result.Title = exceptionTitle(remote)
	}
	if result.Detail == "" && remote.Exception != "" {
		result.Detail = utils.StripMarkup(remote.Exception)
	}

	if isInsufficientStock(remote, result) {
		result.Category = models.CategoryInsufficientStock
		if result.Detail == "" {
			result.Detail = result.Title
		}
		result.Title = insufficientStockTitle
	}
	return result
}

// firstServerMessage decodes "_server_messages": a JSON string holding a list
// of JSON strings, each an encoded message object. Plain-text entries are
// used as the message.
func firstServerMessage(raw string) (serverMessage, bool) {
	if raw == "" {
		return serverMessage{}, false
	}
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil || len(encoded) == 0 {
		return serverMessage{}, false
	}
	var msg serverMessage
	if err := json.Unmarshal([]byte(encoded[0]), &msg); err != nil {
		return serverMessage{Message: encoded[0]}, true
	}
	return msg, true
}

func exceptionTitle(remote *repository.RemoteError) string {
	if remote.ExcType != "" {
		return remote.ExcType
	}
	return "The server rejected the sale"
}

func isInsufficientStock(remote *repository.RemoteError, e *models.ServerError) bool {
	for _, exc := range stockExceptions {
		if remote.ExcType == exc || strings.Contains(remote.Exception, exc) {
			return true
		}
	}
	text := strings.ToLower(e.Title + " " + e.Detail)
	return strings.Contains(text, "insufficient stock") || strings.Contains(text, "negative stock")
}
