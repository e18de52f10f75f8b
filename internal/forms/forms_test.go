package forms

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/VitaminP8/yatube/internal/storage/memory"
	"github.com/VitaminP8/yatube/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForm_Validate(t *testing.T) {
	groups := memory.NewGroupMemoryStorage()
	g, err := groups.CreateGroup(context.Background(), "Group", "group", "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		values    url.Values
		wantValid bool
		wantField string
	}{
		{"Text only", url.Values{"text": {"hello"}}, true, ""},
		{"With group", url.Values{"text": {"hello"}, "group": {"1"}}, true, ""},
		{"Empty text", url.Values{"text": {""}}, false, "text"},
		{"Blank text", url.Values{"text": {"   \n"}}, false, "text"},
		{"Unknown group", url.Values{"text": {"hello"}, "group": {"42"}}, false, "group"},
		{"Bad group id", url.Values{"text": {"hello"}, "group": {"abc"}}, false, "group"},
		{"Long image", url.Values{"text": {"hello"}, "image": {strings.Repeat("a", 501)}}, false, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewPostForm(tt.values)
			in, valid := form.Validate(context.Background(), groups)
			assert.Equal(t, tt.wantValid, valid)
			if tt.wantField != "" {
				assert.NotEmpty(t, form.Errors.Get(tt.wantField))
			} else {
				assert.Equal(t, tt.values.Get("text"), in.Text)
			}
		})
	}

	form := NewPostForm(url.Values{"text": {"hello"}, "group": {"1"}})
	in, valid := form.Validate(context.Background(), groups)
	require.True(t, valid)
	require.NotNil(t, in.GroupID)
	assert.Equal(t, g.ID, *in.GroupID)
}

func TestCommentForm_Validate(t *testing.T) {
	assert.True(t, NewCommentForm(url.Values{"text": {"nice"}}).Validate())
	assert.False(t, NewCommentForm(url.Values{"text": {" "}}).Validate())
	assert.False(t, NewCommentForm(url.Values{}).Validate())
}

func TestSignupForm_Validate(t *testing.T) {
	valid := url.Values{
		"username":  {"leo_tolstoy"},
		"email":     {"leo@example.com"},
		"password1": {"password123"},
		"password2": {"password123"},
	}
	assert.True(t, NewSignupForm(valid).Validate())

	cases := map[string]func(v url.Values){
		"username":  func(v url.Values) { v.Set("username", "bad name!") },
		"email":     func(v url.Values) { v.Set("email", "not-an-email") },
		"password1": func(v url.Values) { v.Set("password1", "short"); v.Set("password2", "short") },
		"password2": func(v url.Values) { v.Set("password2", "different1") },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			values := url.Values{}
			for k, v := range valid {
				values[k] = append([]string(nil), v...)
			}
			mutate(values)

			form := NewSignupForm(values)
			assert.False(t, form.Validate())
			assert.NotEmpty(t, form.Errors.Get(field))
		})
	}

	long := NewSignupForm(url.Values{"username": {strings.Repeat("a", 151)}, "password1": {"password123"}, "password2": {"password123"}})
	assert.False(t, long.Validate())
	assert.NotEmpty(t, long.Errors.Get("username"))
}

func TestLoginForm_Validate(t *testing.T) {
	form := NewLoginForm(url.Values{"username": {"leo"}, "password": {"secret"}, "next": {"/create/"}})
	assert.True(t, form.Validate())
	assert.Equal(t, "/create/", form.Next)

	form = NewLoginForm(url.Values{})
	assert.False(t, form.Validate())
	assert.NotEmpty(t, form.Errors.Get("username"))
	assert.NotEmpty(t, form.Errors.Get("password"))
}

func TestErrors_Err(t *testing.T) {
	errs := Errors{}
	assert.NoError(t, errs.Err())

	errs.Add("text", "first")
	errs.Add("text", "second")
	errs.Add("group", "bad group")
	assert.Equal(t, "first", errs.Get("text"))

	var vErr *ValidationError
	require.True(t, errors.As(errs.Err(), &vErr))
	assert.Equal(t, "group", vErr.Field)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/create/", SafeNext("/create/"))
	assert.Equal(t, "/", SafeNext(""))
	assert.Equal(t, "/", SafeNext("https://evil.example"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
}

func TestPostFormFrom(t *testing.T) {
	gid := uint(7)
	form := PostFormFrom(&models.Post{Text: "text", GroupID: &gid, Image: "/img.png"})
	assert.Equal(t, "text", form.Text)
	assert.Equal(t, "7", form.GroupID)
	assert.Equal(t, "/img.png", form.Image)

	form = PostFormFrom(&models.Post{Text: "text"})
	assert.Equal(t, "", form.GroupID)
	assert.NotNil(t, form.Errors)
}
