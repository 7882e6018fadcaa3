package manaba

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/skobaya/manabasync/pkg/browser"
	"github.com/skobaya/manabasync/pkg/config"
)

const loginWait = 15 * time.Second

// Login navigates to the portal top page and, when redirected to the
// university IdP, submits the configured credentials. Selectors follow the
// IdP's generic form markup and may need adjusting if the university swaps
// its identity provider.
func Login(sess browser.Session, cfg *config.Config) error {
	if err := sess.Navigate(cfg.PortalURL); err != nil {
		return fmt.Errorf("failed to open portal %s: %w", cfg.PortalURL, err)
	}
	if err := sess.WaitVisible("body", loginWait); err != nil {
		return fmt.Errorf("portal page did not load: %w", err)
	}

	url, err := sess.CurrentURL()
	if err != nil {
		return fmt.Errorf("failed to read current URL: %w", err)
	}

	if strings.Contains(url, "idp") || strings.Contains(url, "auth") {
		log.Printf("Detected identity provider at %s, logging in...", url)
		if err := sess.Fill(`input[type="text"]`, cfg.PortalUser); err != nil {
			return fmt.Errorf("failed to fill username: %w", err)
		}
		if err := sess.Fill(`input[type="password"]`, cfg.PortalPassword); err != nil {
			return fmt.Errorf("failed to fill password: %w", err)
		}
		if err := sess.Click(`button[type="submit"], input[type="submit"]`); err != nil {
			return fmt.Errorf("failed to submit login form: %w", err)
		}
		if err := sess.WaitVisible("body", loginWait); err != nil {
			return fmt.Errorf("page did not load after login: %w", err)
		}
	}

	if url, err = sess.CurrentURL(); err != nil {
		return fmt.Errorf("failed to read current URL: %w", err)
	}
	if strings.Contains(url, "home") {
		return nil
	}
	if ok, err := sess.PageContains("コース一覧"); err == nil && ok {
		return nil
	}

	// Best-effort diagnostic for the operator; login failures here usually
	// mean changed IdP markup rather than bad credentials.
	shot := filepath.Join(cfg.ScreenshotDir, "error.png")
	if err := sess.Screenshot(shot); err != nil {
		log.Printf("Warning: could not capture failure screenshot: %v", err)
	} else {
		log.Printf("Saved failure screenshot to %s", shot)
	}
	return fmt.Errorf("login failed or unexpected page structure (current URL: %s)", url)
}
