package domain

// Runner identifiers of the built-in plugins.
const (
	RunnerTargetIIS         = "target.iis"
	RunnerTargetManual      = "target.manual"
	RunnerTargetCsr         = "target.csr"
	RunnerTargetIISBindings = "target.iisbindings"
	RunnerTargetHiddenTest  = "target.hidden-test"

	RunnerValidationSelfHosting     = "validation.selfhosting"
	RunnerValidationFileSystem      = "validation.filesystem"
	RunnerValidationSftp            = "validation.sftp"
	RunnerValidationManualDNS       = "validation.manual-dns"
	RunnerValidationScriptDNS       = "validation.script-dns"
	RunnerValidationAcmeDNS         = "validation.acme-dns"
	RunnerValidationSelfHostingALPN = "validation.selfhosting-alpn"

	RunnerOrderSingle = "order.single"
	RunnerOrderHost   = "order.host"
	RunnerOrderDomain = "order.domain"

	RunnerCsrRsa = "csr.rsa"
	RunnerCsrEc  = "csr.ec"

	RunnerStoreCertificateStore = "store.certificatestore"
	RunnerStoreCentralSsl       = "store.centralssl"
	RunnerStorePemFiles         = "store.pemfiles"
	RunnerStorePfxFile          = "store.pfxfile"
	RunnerStoreNull             = "store.none"

	RunnerInstallationIIS    = "installation.iis"
	RunnerInstallationScript = "installation.script"
	RunnerInstallationNull   = "installation.none"
)
