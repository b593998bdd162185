package vertx

import (
	"fmt"
	"strings"
	"time"
)

const cookieTimeLayout = "Mon, 02 Jan 2006 15:04:05"

// legal cookie-name characters; values made only of these are left unquoted
const cookieLegalChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&'*+-.^_`|~:"

// kept verbatim inside a quoted value
const cookieUnescapedChars = cookieLegalChars + " ()/<=>?@[]{}"

type cookieOptions struct {
	expires  time.Time
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite bool
}

type CookieOption func(*cookieOptions)

func WithExpires(t time.Time) CookieOption {
	return func(o *cookieOptions) { o.expires = t }
}

func WithDomain(domain string) CookieOption {
	return func(o *cookieOptions) { o.domain = domain }
}

func WithPath(path string) CookieOption {
	return func(o *cookieOptions) { o.path = path }
}

func Secure() CookieOption {
	return func(o *cookieOptions) { o.secure = true }
}

// ScriptVisible drops the HttpOnly attribute.
func ScriptVisible() CookieOption {
	return func(o *cookieOptions) { o.httpOnly = false }
}

// CrossSite drops the SameSite=Strict attribute.
func CrossSite() CookieOption {
	return func(o *cookieOptions) { o.sameSite = false }
}

// SetCookie appends a Set-Cookie directive. HttpOnly and SameSite=Strict are on by default.
func (r *Response) SetCookie(name, value string, opts ...CookieOption) error {
	o := cookieOptions{httpOnly: true, sameSite: true}
	for _, opt := range opts {
		opt(&o)
	}

	if name == "" || strings.IndexFunc(name, func(c rune) bool { return !strings.ContainsRune(cookieLegalChars, c) }) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidCookie, name)
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(quoteCookieValue(value))
	if !o.expires.IsZero() {
		b.WriteString("; Expires=" + o.expires.UTC().Format(cookieTimeLayout) + " GMT")
	}
	if o.domain != "" {
		b.WriteString("; Domain=" + o.domain)
	}
	if o.path != "" {
		b.WriteString("; Path=" + o.path)
	}
	if o.secure {
		b.WriteString("; Secure")
	}
	if o.httpOnly {
		b.WriteString("; HttpOnly")
	}
	if o.sameSite {
		b.WriteString("; SameSite=Strict")
	}

	r.Cookies = append(r.Cookies, b.String())
	return nil
}

// UnsetCookie appends a directive expiring name at the Unix epoch.
// Only the domain and path options are honoured.
func (r *Response) UnsetCookie(name string, opts ...CookieOption) {
	var o cookieOptions
	for _, opt := range opts {
		opt(&o)
	}

	cookie := name + "=; Expires=" + time.Unix(0, 0).UTC().Format(cookieTimeLayout) + " GMT"
	if o.domain != "" {
		cookie += "; Domain=" + o.domain
	}
	if o.path != "" {
		cookie += "; Path=" + o.path
	}
	r.Cookies = append(r.Cookies, cookie)
}

func quoteCookieValue(v string) string {
	if v != "" && strings.IndexFunc(v, func(c rune) bool { return !strings.ContainsRune(cookieLegalChars, c) }) < 0 {
		return v
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case c < 256 && !strings.ContainsRune(cookieUnescapedChars, c):
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
