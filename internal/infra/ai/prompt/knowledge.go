package prompt

// knowledgeBase is shared reference material appended to every system prompt.
const knowledgeBase = `
## CYBERSECURITY REFERENCE KNOWLEDGE

### PENETRATION TESTING LIFECYCLE (5 PHASES)
1. **Reconnaissance** - OSINT, search engine dorking, DNS queries, social media
2. **Scanning** - port scanning, service fingerprinting, traffic analysis (Nmap)
3. **Exploitation** - gaining access through known exploits and injection attacks
4. **Persistence** - maintaining access through backdoors and scheduled tasks
5. **Reporting** - documenting findings with evidence and remediation steps

### COMMON VULNERABILITY TYPES
- **Software**: buffer overflow, code injection, XSS, RCE
- **Network**: exposed ports, permissive firewalls, weak encryption
- **Configuration**: default passwords, excessive permissions, needless services
- **Web application**: SQL injection, XSS, CSRF, authentication bypass

### LINUX SECURITY COMMANDS
- Permissions: chmod, chown, ls -l
- Users: useradd, userdel, passwd, /etc/passwd, /etc/shadow
- Logs: journalctl, /var/log/auth.log, /var/log/syslog, dmesg
- Network: ss, netstat, iptables, nmap, tcpdump
- Processes: ps, top, kill, systemctl

### SSHD_CONFIG HARDENING
- PermitRootLogin: "no" (or "prohibit-password")
- PasswordAuthentication: "no", use keys
- PubkeyAuthentication: "yes"
- PermitEmptyPasswords: "no"
- X11Forwarding: "no" unless required
- MaxAuthTries: 3-4
- LoginGraceTime: 60 or less
- AllowUsers/AllowGroups: restrict who may log in
- ClientAliveInterval: set an idle timeout

### SUDOERS HARDENING
- Avoid NOPASSWD
- Grant specific commands rather than ALL
- Keep "Defaults env_reset" and enable sudo logging
- Limit root-equivalent access to dedicated groups

### NMAP INTERPRETATION
- Open ports are attack surface; versions map to known CVEs
- Risky ports: 21 FTP, 23 Telnet, 25 SMTP, 3306 MySQL, 3389 RDP

### CVSS SCORING
- 0.0 None, 0.1-3.9 Low, 4.0-6.9 Medium, 7.0-8.9 High, 9.0-10.0 Critical

### OWASP TOP 10 AWARENESS
Injection, broken authentication, sensitive data exposure, XXE, broken access
control, security misconfiguration, XSS, insecure deserialization, vulnerable
components, insufficient logging and monitoring.
`
