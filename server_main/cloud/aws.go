// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go/aws/ec2metadata"
	"github.com/aws/aws-sdk-go/aws/session"
	"io"
	"net"
	"net/http"
	"os"
	"os/user"
	"strings"
	"time"
)

// DefaultProfile is the shared credentials profile used when none is given.
const DefaultProfile = "terrain"

func getAWSSession(region, profile string) (*session.Session, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	usr, osErr := user.Current()
	if osErr != nil {
		return nil, osErr
	}
	path := fmt.Sprintf("%s/.aws/credentials", usr.HomeDir)
	var creds *credentials.Credentials
	if _, statErr := os.Stat(path); statErr == nil {
		creds = credentials.NewSharedCredentials(path, profile)
	} else {
		creds = credentials.NewCredentials(&ec2rolecreds.EC2RoleProvider{Client: ec2metadata.New(session.Must(session.NewSession()))})
	}
	sess, sessErr := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: creds,
	})
	if sessErr != nil {
		return nil, sessErr
	}
	return sess, nil
}

func getPublicIP() (net.IP, error) {
	client := http.Client{Timeout: 5 * time.Second}
	resp, httpErr := client.Get("http://checkip.amazonaws.com")
	if httpErr != nil {
		return nil, httpErr
	}
	defer resp.Body.Close()
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, readErr
	}
	return parseIP(string(body))
}

func parseIP(body string) (net.IP, error) {
	ipString := strings.TrimSpace(body)
	ip := net.ParseIP(ipString)
	if ip == nil {
		return nil, errors.New("could not parse IP address '" + ipString + "'")
	}
	return ip, nil
}
