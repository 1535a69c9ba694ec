package prompt

import "github.com/bryanwahyu/automaton-secops/internal/domain/analysis"

// SampleFor returns a demonstration payload for c, or "" for unknown
// categories.
func SampleFor(c analysis.Category) string {
	switch c {
	case analysis.CategorySecurityReport:
		return `Starting Nmap 7.94 scan...
PORT     STATE SERVICE VERSION
22/tcp   open  ssh     OpenSSH 8.9
80/tcp   open  http    Apache httpd 2.4.52
443/tcp  open  https   nginx
3306/tcp open  mysql   MySQL 5.7.38`
	case analysis.CategoryLogAnalysis:
		return `Jan 05 10:23:45 server sshd[1234]: Failed password for invalid user admin from 192.168.1.100
Jan 05 10:23:48 server sshd[1234]: Failed password for root from 192.168.1.100
Jan 05 10:24:01 server CRON[5678]: (root) CMD (/usr/bin/certbot renew)`
	case analysis.CategoryConfigAudit:
		return `Port 22
PermitRootLogin yes
PasswordAuthentication yes
X11Forwarding yes
MaxAuthTries 6`
	default:
		return ""
	}
}

// Description is the one-line help text shown next to each category.
func Description(c analysis.Category) string {
	switch c {
	case analysis.CategorySecurityReport:
		return "Analyze security scan results and generate vulnerability reports"
	case analysis.CategoryLogAnalysis:
		return "Parse and analyze Linux system logs for security events"
	case analysis.CategoryConfigAudit:
		return "Audit configurations against RHCSA security standards"
	default:
		return ""
	}
}
