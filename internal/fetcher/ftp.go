package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// anonymousUser is the conventional login on public statistical mirrors.
const anonymousUser = "anonymous"

// FTPOptions configures the FTP fetcher.
type FTPOptions struct {
	Timeout time.Duration
	// ReplyAddr is sent as the anonymous-login password. Public mirrors
	// expect a contact address there; credentials embedded in the source
	// URL take precedence over anonymous login entirely.
	ReplyAddr string
}

// FTPFetcher downloads files from FTP mirrors. A few state statistical
// bureaus still distribute survey extracts this way, usually as zipped CSV,
// so transfers are forced to binary mode before retrieval.
type FTPFetcher struct {
	opts FTPOptions
}

// NewFTPFetcher creates an FTPFetcher with the given options.
func NewFTPFetcher(opts FTPOptions) *FTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ReplyAddr == "" {
		opts.ReplyAddr = "amenities-cli@bharatstats.in"
	}
	return &FTPFetcher{opts: opts}
}

// ftpTarget is a parsed FTP URL: dial address, remote path, and login.
type ftpTarget struct {
	host string // host:port
	path string
	user string
	pass string
}

// parseFTPTarget validates an FTP URL and resolves its login. URLs without
// userinfo fall back to anonymous with replyAddr as the password.
func parseFTPTarget(rawURL, replyAddr string) (ftpTarget, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ftpTarget{}, eris.Wrap(err, "parse ftp url")
	}
	if u.Scheme != "ftp" {
		return ftpTarget{}, eris.Errorf("expected ftp scheme, got %q", u.Scheme)
	}
	if u.Path == "" {
		return ftpTarget{}, eris.New("empty path in ftp url")
	}

	t := ftpTarget{host: u.Host, path: u.Path, user: anonymousUser, pass: replyAddr}
	if _, _, splitErr := net.SplitHostPort(t.host); splitErr != nil {
		t.host = net.JoinHostPort(t.host, "21")
	}
	if u.User != nil {
		t.user = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			t.pass = pass
		} else {
			t.pass = ""
		}
	}

	return t, nil
}

// ftpBody ties the data connection's lifetime to the control connection so
// closing the reader also disconnects from the server.
type ftpBody struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (b *ftpBody) Read(p []byte) (int, error) {
	return b.resp.Read(p)
}

func (b *ftpBody) Close() error {
	respErr := b.resp.Close()
	quitErr := b.conn.Quit()
	if respErr != nil {
		return eris.Wrap(respErr, "close ftp response")
	}
	if quitErr != nil {
		return eris.Wrap(quitErr, "quit ftp connection")
	}
	return nil
}

// Fetch logs in, switches to binary mode, retrieves the file, and returns
// its body. The caller must close the returned ReadCloser to release the
// connection.
func (f *FTPFetcher) Fetch(ctx context.Context, ftpURL string) (io.ReadCloser, error) {
	target, err := parseFTPTarget(ftpURL, f.opts.ReplyAddr)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("ftp: connecting",
		zap.String("host", target.host),
		zap.String("path", target.path),
		zap.String("user", target.user),
	)

	conn, err := ftp.Dial(target.host, ftp.DialWithTimeout(f.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "ftp dial")
	}

	if err := conn.Login(target.user, target.pass); err != nil {
		_ = conn.Quit()
		return nil, eris.Wrapf(err, "ftp login as %s", target.user)
	}

	// ASCII-mode line-ending translation would corrupt zipped extracts.
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		_ = conn.Quit()
		return nil, eris.Wrap(err, "ftp set binary mode")
	}

	resp, err := conn.Retr(target.path)
	if err != nil {
		_ = conn.Quit()
		return nil, eris.Wrap(err, "ftp retrieve")
	}

	return &ftpBody{resp: resp, conn: conn}, nil
}

// FetchToFile downloads the FTP URL to a local file. Returns bytes written.
func (f *FTPFetcher) FetchToFile(ctx context.Context, ftpURL string, path string) (int64, error) {
	rc, err := f.Fetch(ctx, ftpURL)
	if err != nil {
		return 0, err
	}
	defer rc.Close() //nolint:errcheck

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, rc)
	if err != nil {
		return n, eris.Wrap(err, "write file")
	}

	zap.L().Debug("ftp: downloaded", zap.String("path", path), zap.Int64("bytes", n))
	return n, nil
}
