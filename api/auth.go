package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/mybookconnect/go-session"
)

// IssueToken exchanges credentials for a bearer token via POST /auth/token/.
// A rejected login (the backend answers 400/401 with a detail message)
// surfaces as ErrInvalidCredentials.
func (c *Client) IssueToken(ctx context.Context, identifier, password string) (string, error) {
	const op = "IssueToken"

	payload := map[string]string{"username": identifier, "password": password}
	resp, err := c.doJSON(ctx, op, http.MethodPost, c.endpoint("/auth/token/", nil), "", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		detail, _ := decodeErrorBody(resp.Body)
		return "", session.ErrInvalidCredentials.Clone().WithMetadata(map[string]any{
			"status": resp.StatusCode,
			"detail": detail,
		})
	}
	if !ok(resp) {
		return "", session.NewNetworkError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body tokenResponse
	if err := decode(op, resp, &body); err != nil {
		return "", err
	}
	token := body.bearer()
	if token == "" {
		return "", session.NewMalformedError(op, fmt.Errorf("token response carries no access field"))
	}
	return token, nil
}

// RegisterAccount creates an account via POST /auth/register/. Per-field
// rejections (username taken, weak password) come back as a validation
// error carrying the field map.
func (c *Client) RegisterAccount(ctx context.Context, req session.RegisterRequest) error {
	const op = "RegisterAccount"

	resp, err := c.doJSON(ctx, op, http.MethodPost, c.endpoint("/auth/register/", nil), "", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		detail, fields := decodeErrorBody(resp.Body)
		if resp.StatusCode == http.StatusBadRequest {
			if detail == "" {
				detail = "registration rejected"
			}
			return session.NewValidationError(detail, fields)
		}
		return session.NewNetworkError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchProfile reads the authenticated profile via GET /auth/profile/.
func (c *Client) FetchProfile(ctx context.Context, token string) (*session.User, error) {
	const op = "FetchProfile"

	resp, err := c.do(ctx, op, http.MethodGet, c.endpoint("/auth/profile/", nil), token, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, c.statusError(op, resp)
	}

	user := &session.User{}
	if err := decode(op, resp, user); err != nil {
		return nil, err
	}
	if user.ID == 0 || user.Username == "" {
		return nil, session.NewMalformedError(op, fmt.Errorf("response is not a profile record"))
	}
	return user, nil
}

// UpdateProfile sends a partial update via PATCH /auth/profile/update/ and
// returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, token string, update session.ProfileUpdate) (*session.User, error) {
	const op = "UpdateProfile"

	resp, err := c.doJSON(ctx, op, http.MethodPatch, c.endpoint("/auth/profile/update/", nil), token, update)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.profileResponse(op, resp)
}

// UpdateProfileWithAvatar sends the update as a multipart form so the binary
// avatar travels alongside the field edits.
func (c *Client) UpdateProfileWithAvatar(ctx context.Context, token string, update session.ProfileUpdate, avatar session.AvatarUpload) (*session.User, error) {
	const op = "UpdateProfileWithAvatar"

	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	if err := writeUpdateFields(form, update); err != nil {
		return nil, session.NewNetworkError(op, err)
	}
	if err := writeAvatarPart(form, avatar); err != nil {
		return nil, session.NewNetworkError(op, err)
	}
	if err := form.Close(); err != nil {
		return nil, session.NewNetworkError(op, err)
	}

	resp, err := c.do(ctx, op, http.MethodPatch, c.endpoint("/auth/profile/update/", nil), token, form.FormDataContentType(), buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.profileResponse(op, resp)
}

func (c *Client) profileResponse(op string, resp *http.Response) (*session.User, error) {
	if !ok(resp) {
		return nil, c.statusError(op, resp)
	}
	user := &session.User{}
	if err := decode(op, resp, user); err != nil {
		return nil, err
	}
	return user, nil
}

func writeUpdateFields(form *multipart.Writer, update session.ProfileUpdate) error {
	fields := map[string]*string{
		"first_name":    update.FirstName,
		"last_name":     update.LastName,
		"email":         update.Email,
		"bio":           update.Bio,
		"birth_date":    update.BirthDate,
		"location":      update.Location,
		"privacy_level": update.PrivacyLevel,
	}
	for name, value := range fields {
		if value == nil {
			continue
		}
		if err := form.WriteField(name, *value); err != nil {
			return err
		}
	}
	return nil
}

func writeAvatarPart(form *multipart.Writer, avatar session.AvatarUpload) error {
	filename := avatar.FileName
	if filename == "" {
		filename = "avatar"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filename))
	if avatar.ContentType != "" {
		header.Set("Content-Type", avatar.ContentType)
	}

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	if avatar.Content == nil {
		return fmt.Errorf("avatar upload has no content")
	}
	_, err = io.Copy(part, avatar.Content)
	return err
}
