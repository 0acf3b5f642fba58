package assets

import (
	"errors"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCode returns PNG bytes for the QR element. The static qr-code.png asset
// wins when present; otherwise, if the listing has an absolute permalink, a
// code is generated from it in-process. With neither, *AssetMissing is
// returned and the caller skips the element.
func (r *Resolver) QRCode(permalink string, size int) ([]byte, error) {
	data, err := r.Resolve(QRCodeAsset)
	if err == nil {
		return data, nil
	}

	var missing *AssetMissing
	if !errors.As(err, &missing) {
		return nil, err
	}

	if !absoluteURL(permalink) {
		return nil, err
	}

	r.log.Debug().Str("permalink", permalink).Msg("qr asset missing, generating from permalink")
	png, genErr := qrcode.Encode(permalink, qrcode.Medium, size)
	if genErr != nil {
		return nil, err
	}
	return png, nil
}

func absoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
