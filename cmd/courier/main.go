package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"delivery-proof/internal/core/httpclient"
	"delivery-proof/internal/core/logger"
	captureadapter "delivery-proof/internal/features/capture/adapters"
	captureports "delivery-proof/internal/features/capture/ports"
	captureservice "delivery-proof/internal/features/capture/service"
	notifdomain "delivery-proof/internal/features/notifications/domain"

	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

// courier is a field companion for delivery drivers: it signs in against the
// API, shows the pending worklist, and completes a delivery by capturing a
// confirmation photo from the configured camera.
func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API base URL")
	email := flag.String("email", os.Getenv("COURIER_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("COURIER_PASSWORD"), "account password")
	cameraURL := flag.String("camera", envOr("CAMERA_SNAPSHOT_URL", "http://127.0.0.1:8081/snapshot"), "camera snapshot URL")
	simulate := flag.Bool("sim", false, "use a simulated camera instead of the snapshot URL")
	flag.Parse()

	if err := logger.Init("development", "info"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: courier [flags] list | complete <delivery-id>")
		os.Exit(2)
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required (flags or COURIER_EMAIL/COURIER_PASSWORD)")
		os.Exit(2)
	}

	ctx := context.Background()

	token, err := signIn(ctx, *apiURL, *email, *password)
	if err != nil {
		logger.Get().Fatal("Sign-in failed", zap.Error(err))
	}
	client := httpclient.NewAuthenticatedClient(token, requestTimeout)
	defer signOut(ctx, client, *apiURL)

	switch flag.Arg(0) {
	case "list":
		err = listWorklist(ctx, client, *apiURL)
	case "complete":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "usage: courier complete <delivery-id>")
			os.Exit(2)
		}
		var device captureports.Device
		if *simulate {
			device = captureadapter.NewSimDevice()
		} else {
			device = captureadapter.NewHTTPSnapshotDevice(*cameraURL)
		}
		err = completeDelivery(ctx, client, *apiURL, flag.Arg(1), device)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		os.Exit(2)
	}

	if err != nil {
		logger.Get().Fatal("Command failed", zap.Error(err))
	}
}

type session struct {
	Identity struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"identity"`
	Token string `json:"token"`
}

type delivery struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	Status     string `json:"status"`
}

func signIn(ctx context.Context, apiURL, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/auth/signin", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpclient.NewClient(requestTimeout).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign-in rejected with status %d", resp.StatusCode)
	}

	var s session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return "", fmt.Errorf("failed to decode session: %w", err)
	}
	return s.Token, nil
}

func signOut(ctx context.Context, client *http.Client, apiURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/auth/signout", nil)
	if err != nil {
		return
	}
	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func listWorklist(ctx context.Context, client *http.Client, apiURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/delivery/deliveries", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch worklist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("worklist request returned status %d", resp.StatusCode)
	}

	var worklist []delivery
	if err := json.NewDecoder(resp.Body).Decode(&worklist); err != nil {
		return fmt.Errorf("failed to decode worklist: %w", err)
	}

	if len(worklist) == 0 {
		fmt.Println("No pending deliveries.")
		return nil
	}
	for _, d := range worklist {
		fmt.Printf("%s  %s  %s\n", d.ID, d.ClientName, d.Address)
		if d.Notes != "" {
			fmt.Printf("    %s\n", d.Notes)
		}
	}
	return nil
}

func completeDelivery(ctx context.Context, client *http.Client, apiURL, deliveryID string, device captureports.Device) error {
	photo, err := capturePhoto(ctx, device)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(map[string]string{"photo": photo})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		apiURL+"/delivery/deliveries/"+deliveryID+"/complete", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit completion: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Printf("Delivery %s completed.\n", deliveryID)
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("no pending delivery with id %s", deliveryID)
	default:
		return fmt.Errorf("completion returned status %d", resp.StatusCode)
	}
}

// capturePhoto runs one full capture cycle: acquire, grab a frame, freeze,
// confirm. The session surfaces acquisition failures through the notifier.
func capturePhoto(ctx context.Context, device captureports.Device) (string, error) {
	constraints := captureports.Constraints{
		FacingMode: "environment",
		Width:      envIntOr("CAMERA_WIDTH", 1280),
		Height:     envIntOr("CAMERA_HEIGHT", 720),
	}
	sess := captureservice.NewSession(device, constraints, consoleNotifier{})
	defer sess.Close()

	if err := sess.Start(ctx); err != nil {
		return "", fmt.Errorf("camera unavailable: %w", err)
	}
	if err := sess.Capture(ctx); err != nil {
		return "", fmt.Errorf("capture failed: %w", err)
	}
	return sess.Confirm()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// consoleNotifier prints session notifications to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Notify(_ context.Context, notificationType notifdomain.NotificationType, title, message string) {
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", notificationType, title, message)
}
