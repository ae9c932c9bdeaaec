// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"path"
)

type Filesystem interface {
	UploadStaticFile(filename string, secondsCache int, data []byte) error
}

// Patch S3's limited vocabulary of default content types
var contentTypes = map[string]string{
	".json": "application/json",
	".obj":  "model/obj",
	".png":  "image/png",
}

// ContentType returns the MIME type of filename, or "" if unknown.
func ContentType(filename string) string {
	return contentTypes[path.Ext(filename)]
}
