// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package dns

import (
	"github.com/aws/aws-sdk-go/aws"
	"net"
	"testing"
)

func TestRoute53Upsert(t *testing.T) {
	route53DNS := &Route53DNS{domain: "example.com", zoneID: "Z123"}

	tests := []struct {
		address    string
		recordType string
	}{
		{"203.0.113.7", "A"},
		{"2001:db8::1", "AAAA"},
	}

	for _, test := range tests {
		input := route53DNS.upsert("terrain-1", net.ParseIP(test.address))
		if zone := aws.StringValue(input.HostedZoneId); zone != "Z123" {
			t.Errorf("expected zone Z123 got %s", zone)
		}

		set := input.ChangeBatch.Changes[0].ResourceRecordSet
		if name := aws.StringValue(set.Name); name != "terrain-1.example.com" {
			t.Errorf("expected terrain-1.example.com got %s", name)
		}
		if typ := aws.StringValue(set.Type); typ != test.recordType {
			t.Errorf("%s: expected %s got %s", test.address, test.recordType, typ)
		}
		if value := aws.StringValue(set.ResourceRecords[0].Value); value != test.address {
			t.Errorf("expected %s got %s", test.address, value)
		}
	}
}
