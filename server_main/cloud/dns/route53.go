// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package dns

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/route53"
	"net"
)

type Route53DNS struct {
	svc    *route53.Route53
	domain string
	zoneID string
}

func NewRoute53DNS(session *session.Session, domain string, zoneID string) (*Route53DNS, error) {
	route53DNS := &Route53DNS{svc: route53.New(session)}

	route53DNS.domain = domain
	route53DNS.zoneID = zoneID

	return route53DNS, nil
}

func (route53DNS *Route53DNS) UpdateRoute(host string, address net.IP) error {
	_, err := route53DNS.svc.ChangeResourceRecordSets(route53DNS.upsert(host, address))
	return err
}

func (route53DNS *Route53DNS) upsert(host string, address net.IP) *route53.ChangeResourceRecordSetsInput {
	recordType := "A"
	if address.To4() == nil {
		recordType = "AAAA"
	}

	return &route53.ChangeResourceRecordSetsInput{
		ChangeBatch: &route53.ChangeBatch{
			Changes: []*route53.Change{
				{
					Action: aws.String(route53.ChangeActionUpsert),
					ResourceRecordSet: &route53.ResourceRecordSet{
						Name: aws.String(host + "." + route53DNS.domain),
						Type: aws.String(recordType),
						ResourceRecords: []*route53.ResourceRecord{
							{
								Value: aws.String(address.String()),
							},
						},
						TTL: aws.Int64(60),
					},
				},
			},
		},
		HostedZoneId: aws.String(route53DNS.zoneID),
	}
}
