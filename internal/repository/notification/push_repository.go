package notification

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lexiDaily/pkg/logger"

	"github.com/pobyzaarif/goshortcute"
)

type PushConfig struct {
	PushBaseURL           string
	PushBasicAuthUsername string
	PushBasicAuthPassword string
}

// PushRepository hands a word delivery to the external push gateway.
// Fire-and-forget from the engine's perspective; the gateway owns retries
// and payload encryption.
type PushRepository struct {
	pushConfig PushConfig
}

func NewPushRepository(cfg PushConfig) *PushRepository {
	return &PushRepository{
		cfg,
	}
}

type payloadSendPush struct {
	UserID uint   `json:"user_id"`
	Word   string `json:"word"`
	Date   string `json:"date"`
}

func (r PushRepository) Send(userID uint, word, date string) (err error) {
	url := r.pushConfig.PushBaseURL + "/v1/deliveries"
	method := http.MethodPost

	payload := payloadSendPush{
		UserID: userID,
		Word:   word,
		Date:   date,
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(method, url, strings.NewReader(string(payloadByte)))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.pushConfig.PushBasicAuthUsername + ":" + r.pushConfig.PushBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(res.Body)
	logger.Warn("push gateway response", "status", res.StatusCode, "body", string(bodyBytes))

	return fmt.Errorf("push gateway returned negative response %v", res.StatusCode)
}
