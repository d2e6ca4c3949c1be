package amass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

func TestParseLine_FQDNNodeYieldsHost(t *testing.T) {
	rec, ok := New().ParseLine("example.com (FQDN) --> node --> www.example.com (FQDN)")
	require.True(t, ok)
	host, isHost := rec.(toolrunner.HostRecord)
	require.True(t, isHost)
	assert.Equal(t, "www.example.com", host.Hostname)
}

func TestParseLine_ARecordYieldsIPWithSourceHost(t *testing.T) {
	rec, ok := New().ParseLine("www.example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)")
	require.True(t, ok)
	ip, isIP := rec.(toolrunner.IPRecord)
	require.True(t, isIP)
	assert.Equal(t, "93.184.216.34", ip.IP)
	assert.Equal(t, "www.example.com", ip.Hostname)
}

func TestParseLine_NetblockYieldsCIDR(t *testing.T) {
	rec, ok := New().ParseLine("15133 (ASN) --> announces --> 93.184.216.0/24 (Netblock)")
	require.True(t, ok)
	cidr, isCIDR := rec.(toolrunner.CIDRRecord)
	require.True(t, isCIDR)
	assert.Equal(t, "93.184.216.0/24", cidr.CIDR)
}

func TestParseLine_CNAMERecordYieldsHost(t *testing.T) {
	rec, ok := New().ParseLine("cdn.example.com (FQDN) --> cname_record --> edge.provider.net (FQDN)")
	require.True(t, ok)
	host := rec.(toolrunner.HostRecord)
	assert.Equal(t, "edge.provider.net", host.Hostname)
}

func TestParseLine_NonGraphLineIsSkip(t *testing.T) {
	_, ok := New().ParseLine("OWASP Amass v4.2.0")
	assert.False(t, ok)

	_, ok = New().ParseLine("")
	assert.False(t, ok)
}
