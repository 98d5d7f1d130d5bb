// Small CLI that requests a translation for one activity and blocks until it
// reaches a terminal state. Handy for poking a running instance.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"repolingo/internal/infra/statuspoll"
	"repolingo/internal/infra/web"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the API")
	secret := flag.String("jwt-secret", "", "api.jwt_secret of the target instance, used to mint a token")
	userID := flag.String("user", "", "user id to act as")
	activityID := flag.String("activity", "", "activity id to translate")
	lang := flag.String("lang", "", "target language (empty = server default)")
	force := flag.Bool("force", false, "re-translate even if a result exists")
	interval := flag.Duration("interval", 3*time.Second, "poll interval")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall wait timeout")
	flag.Parse()

	if *secret == "" || *userID == "" || *activityID == "" {
		log.Fatal("usage: poll -jwt-secret ... -user ... -activity ... [-lang xx] [-force]")
	}

	token, err := web.NewAuthManager(*secret, time.Hour).Mint(*userID)
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := requestTranslation(ctx, *addr, token, *activityID, *lang, *force); err != nil {
		log.Fatalf("request translation: %v", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	source := statuspoll.NewHTTPSource(*addr, token)
	poller := statuspoll.New(source, *interval, &logger)

	a, err := poller.Wait(ctx, *activityID)
	if err != nil {
		log.Fatalf("wait: %v", err)
	}
	fmt.Printf("status: %s\n", a.TranslationStatus)
	if a.TranslatedBody != nil {
		fmt.Println(*a.TranslatedBody)
	}
}

func requestTranslation(ctx context.Context, addr, token, activityID, lang string, force bool) error {
	body, err := json.Marshal(map[string]any{"force": force, "targetLanguage": lang})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/v1/activities/%s/translation", addr, activityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		log.Println("translation job enqueued")
	case http.StatusOK:
		log.Println("translation already available")
	case http.StatusConflict:
		log.Println("translation already in progress, waiting for it")
	default:
		return fmt.Errorf("unexpected http %d", resp.StatusCode)
	}
	return nil
}
