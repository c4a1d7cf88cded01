package lapd

import (
	"fmt"
	"path"
	"strings"
)

// ParseAttrPath splits an attribute path into object path and attribute
// name. Attribute paths have the form /group/object@attribute; "/@name"
// addresses an attribute of the root group.
func ParseAttrPath(p string) (objectPath, attrName string, err error) {
	at := strings.LastIndex(p, "@")
	if at == -1 {
		return "", "", fmt.Errorf("%w: %q has no '@' separator", ErrInvalidPath, p)
	}
	objectPath, attrName = p[:at], p[at+1:]
	if attrName == "" {
		return "", "", fmt.Errorf("%w: %q has an empty attribute name", ErrInvalidPath, p)
	}
	return CleanPath(objectPath), attrName, nil
}

// JoinAttrPath builds an attribute path from an object path and attribute
// name.
func JoinAttrPath(objectPath, attrName string) string {
	objectPath = CleanPath(objectPath)
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// CleanPath normalizes an object path to start with "/" and carry no
// trailing slash.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// DevicePath returns the path of a device group, or of an item under it.
func DevicePath(device string, parts ...string) string {
	return path.Join(append([]string{rawGroup, device}, parts...)...)
}
